package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

var pubBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "circuit", Required: true},
		{Name: "shots"},
		{Name: "params"},
		{Name: "values"},
	},
}

var samplerBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default_shots"},
		{Name: "seed"},
		{Name: "workers"},
		{Name: "backend"},
	},
}

// parsePubBlock decodes one `pub` block into a pendingPub. Parameter
// values stay as decoded Go trees; their interpretation against the
// circuit happens during batch normalization.
func parsePubBlock(block *hcl.Block, file string) (pendingPub, hcl.Diagnostics) {
	p := pendingPub{name: block.Labels[0], file: file}

	content, diags := block.Body.Content(pubBodySchema)
	if diags.HasErrors() {
		return p, diags
	}

	refAttr := content.Attributes["circuit"]
	diags = append(diags, gohcl.DecodeExpression(refAttr.Expr, nil, &p.ref)...)
	p.refRange = refAttr.Expr.Range()

	if attr, exists := content.Attributes["shots"]; exists {
		var shots int
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &shots)...)
		p.shots = &shots
	}

	paramsAttr, hasParams := content.Attributes["params"]
	valuesAttr, hasValues := content.Attributes["values"]
	if hasParams && hasValues {
		return p, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid \"pub\" block",
			Detail:   "The \"params\" and \"values\" attributes are mutually exclusive.",
			Subject:  &block.DefRange,
		})
	}

	if hasParams {
		named, paramDiags := decodeNamedParams(paramsAttr)
		diags = append(diags, paramDiags...)
		p.params = named
	}
	if hasValues {
		values, valueDiags := decodeValue(valuesAttr)
		diags = append(diags, valueDiags...)
		p.params = values
	}

	return p, diags
}

// parseSamplerBlock decodes the optional `sampler` block of execution
// defaults.
func parseSamplerBlock(block *hcl.Block) (SamplerConfig, hcl.Diagnostics) {
	var cfg SamplerConfig

	content, diags := block.Body.Content(samplerBodySchema)
	if diags.HasErrors() {
		return cfg, diags
	}

	if attr, exists := content.Attributes["default_shots"]; exists {
		var shots int
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &shots)...)
		cfg.DefaultShots = &shots
	}
	if attr, exists := content.Attributes["seed"]; exists {
		var seed uint64
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &seed)...)
		cfg.Seed = &seed
	}
	if attr, exists := content.Attributes["workers"]; exists {
		var workers int
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &workers)...)
		cfg.Workers = &workers
	}
	if attr, exists := content.Attributes["backend"]; exists {
		var backend string
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &backend)...)
		cfg.Backend = &backend
	}

	return cfg, diags
}
