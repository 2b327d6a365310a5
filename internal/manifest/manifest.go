// Package manifest loads sampling batches from HCL files. A manifest set
// declares named circuit blocks, pub blocks referencing them, and at most
// one sampler block with execution defaults. Files merge into one batch:
// circuits may live in a different file than the pubs that use them.
package manifest

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/qubelet/qsampler/internal/circuit"
	"github.com/qubelet/qsampler/internal/ctxlog"
	"github.com/qubelet/qsampler/internal/fsutil"
	"github.com/qubelet/qsampler/internal/pub"
)

// SamplerConfig carries the optional execution defaults of a manifest
// set's sampler block. Nil fields were not set and yield to flag or
// built-in defaults.
type SamplerConfig struct {
	DefaultShots *int
	Seed         *uint64
	Workers      *int
	Backend      *string
}

// Entry is one pub assembled from a manifest, keeping the block label and
// source file for reporting.
type Entry struct {
	Name string
	File string
	Spec pub.Spec
}

// Batch is the merged content of a manifest set, with pubs in declaration
// order across files.
type Batch struct {
	Sampler SamplerConfig
	Entries []Entry
}

// Specs returns the pub specs in batch order, the shape Sampler.Run takes.
func (b *Batch) Specs() []pub.Spec {
	specs := make([]pub.Spec, len(b.Entries))
	for i, e := range b.Entries {
		specs[i] = e.Spec
	}
	return specs
}

// rootSchema is the allowed top-level structure of a manifest file.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "sampler"},
		{Type: "circuit", LabelNames: []string{"name"}},
		{Type: "pub", LabelNames: []string{"name"}},
	},
}

// Load discovers every .hcl file under the given paths (each path may be a
// file or a directory), parses them, and merges the result into a Batch.
// Parse and validation problems are returned as hcl diagnostics carrying
// file and line information.
func Load(ctx context.Context, paths ...string) (*Batch, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find manifest files: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("⚠️ No .hcl manifest files found.", "paths", paths)
		return &Batch{}, nil
	}
	logger.Debug("Found manifest files to load.", "files", files)

	ld := &loader{circuits: map[string]*namedCircuit{}}
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", file, diags)
		}
		if diags := ld.mergeFile(ctx, hclFile.Body, file); diags.HasErrors() {
			return nil, fmt.Errorf("invalid manifest file %s: %w", file, diags)
		}
		logger.Debug("Merged manifest file.", "file", file)
	}

	batch, diags := ld.resolve()
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Info("Manifest batch loaded.",
		"files", len(files), "circuits", len(ld.circuits), "pubs", len(batch.Entries))
	return batch, nil
}

// namedCircuit is a compiled circuit block plus its source file.
type namedCircuit struct {
	circ *circuit.Circuit
	file string
}

// pendingPub is a parsed pub block awaiting circuit reference resolution.
type pendingPub struct {
	name     string
	file     string
	ref      string
	refRange hcl.Range
	shots    *int
	params   any
}

// loader accumulates blocks across files before resolution.
type loader struct {
	circuits    map[string]*namedCircuit
	pubs        []pendingPub
	sampler     SamplerConfig
	samplerFile string
}

// mergeFile folds one parsed file into the loader state.
func (l *loader) mergeFile(ctx context.Context, body hcl.Body, file string) hcl.Diagnostics {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return diags
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "circuit":
			name := block.Labels[0]
			if prev, dup := l.circuits[name]; dup {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"circuit\" block",
					Detail:   fmt.Sprintf("A circuit named %q is already defined in %s.", name, prev.file),
					Subject:  &block.DefRange,
				})
				continue
			}
			circ, circDiags := compileCircuit(ctx, block)
			diags = append(diags, circDiags...)
			if circDiags.HasErrors() {
				continue
			}
			l.circuits[name] = &namedCircuit{circ: circ, file: file}

		case "pub":
			p, pubDiags := parsePubBlock(block, file)
			diags = append(diags, pubDiags...)
			if pubDiags.HasErrors() {
				continue
			}
			l.pubs = append(l.pubs, p)

		case "sampler":
			if l.samplerFile != "" {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"sampler\" block",
					Detail:   fmt.Sprintf("Only one \"sampler\" block is allowed across the manifest set; first defined in %s.", l.samplerFile),
					Subject:  &block.DefRange,
				})
				continue
			}
			cfg, samplerDiags := parseSamplerBlock(block)
			diags = append(diags, samplerDiags...)
			if samplerDiags.HasErrors() {
				continue
			}
			l.sampler = cfg
			l.samplerFile = file
		}
	}
	return diags
}

// resolve links every pub to its circuit and assembles the batch.
func (l *loader) resolve() (*Batch, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	batch := &Batch{Sampler: l.sampler}
	for _, p := range l.pubs {
		named, ok := l.circuits[p.ref]
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown circuit reference",
				Detail:   fmt.Sprintf("Pub %q references circuit %q, but no such circuit block exists (known: %v).", p.name, p.ref, l.circuitNames()),
				Subject:  &p.refRange,
			})
			continue
		}
		batch.Entries = append(batch.Entries, Entry{
			Name: p.name,
			File: p.file,
			Spec: pub.Spec{Circuit: named.circ, Params: p.params, Shots: p.shots},
		})
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return batch, nil
}

func (l *loader) circuitNames() []string {
	names := make([]string, 0, len(l.circuits))
	for name := range l.circuits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
