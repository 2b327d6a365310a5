// Package executor drives the execution of a normalized pub batch: a
// bounded worker pool fans the pubs out over the backend, each pub loops
// its broadcast points sequentially, and the aggregated per-register
// results land at the pub's submission index so completion order can
// never reorder the output.
package executor

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qubelet/qsampler/internal/aggregate"
	"github.com/qubelet/qsampler/internal/backend"
	"github.com/qubelet/qsampler/internal/ctxlog"
	"github.com/qubelet/qsampler/internal/pub"
	"github.com/qubelet/qsampler/internal/result"
)

// Options tunes one execution.
type Options struct {
	// Workers bounds how many pubs execute concurrently. Values below 1
	// are treated as 1.
	Workers int
	// Seed, when set, makes the whole batch reproducible shot for shot.
	// When nil a fresh root seed is drawn per execution.
	Seed *uint64
}

// Execute runs every pub against the backend and assembles the ordered
// result. The first failing pub cancels the remaining ones; cancellation
// is checked between simulation calls, never inside one.
func Execute(ctx context.Context, pubs []*pub.Pub, be backend.Backend, opts Options) (*result.PrimitiveResult, error) {
	logger := ctxlog.FromContext(ctx)

	root, err := rootSeed(opts.Seed)
	if err != nil {
		return nil, err
	}
	workers := max(1, opts.Workers)
	logger.Info("🚀 Starting batch execution.",
		"pubs", len(pubs), "workers", workers, "backend", be.Name(), "seeded", opts.Seed != nil)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	results := make([]*result.PubResult, len(pubs))
	for i, p := range pubs {
		g.Go(func() error {
			pr, err := runPub(gctx, i, p, be, root)
			if err != nil {
				return fmt.Errorf("pub %d: %w", i, err)
			}
			results[i] = pr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result.New(results), nil
}

// runPub executes one pub: one backend call per broadcast point, then
// aggregation into per-register bit arrays.
func runPub(ctx context.Context, idx int, p *pub.Pub, be backend.Backend, root uint64) (*result.PubResult, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("▶️ Starting pub execution.",
		"pub", idx, "shots", p.Shots, "points", p.NumPoints(), "registers", len(p.Layout.Registers))
	start := time.Now()

	points := p.NumPoints()
	raws := make([][][]byte, points)
	simMeta := map[string]any{}
	for pt := 0; pt < points; pt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed := deriveSeed(root, uint64(idx), uint64(pt))
		run, err := be.Run(ctx, p.Circuit, p.Bindings.At(pt), p.Shots, seed)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", pt, err)
		}
		if pt == 0 && run.Metadata != nil {
			simMeta = run.Metadata
		}
		raws[pt] = run.Bits
	}

	data, err := aggregate.PubData(p.Layout, p.Shape(), p.Shots, raws)
	if err != nil {
		return nil, err
	}

	md := map[string]any{
		"shots":              p.Shots,
		"circuit_metadata":   circuitMetadata(p),
		"simulator_metadata": simMeta,
	}
	if len(p.Warnings) > 0 {
		md["warnings"] = slices.Clone(p.Warnings)
	}

	logger.Info("✅ Finished pub execution.", "pub", idx, "duration", time.Since(start))
	return &result.PubResult{
		Data:          data,
		RegisterNames: p.Layout.Names(),
		Metadata:      md,
	}, nil
}

func circuitMetadata(p *pub.Pub) map[string]any {
	if p.Circuit.Metadata == nil {
		return map[string]any{}
	}
	return p.Circuit.Metadata
}
