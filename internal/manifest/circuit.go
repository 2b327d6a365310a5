package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/qubelet/qsampler/internal/circuit"
	"github.com/qubelet/qsampler/internal/ctxlog"
)

// circuitBodySchema defines the expected structure of a `circuit` block's
// body. Registers, gates, and measures are repeatable blocks whose source
// order is the program order.
var circuitBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "qubits", Required: true},
		{Name: "measure_all"},
		{Name: "metadata"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "creg", LabelNames: []string{"name"}},
		{Type: "gate", LabelNames: []string{"op"}},
		{Type: "measure"},
	},
}

var cregBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "size"},
		{Name: "bits"},
	},
}

var gateBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "on", Required: true},
		{Name: "angle"},
		{Name: "matrix"},
	},
}

var measureBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "qubit", Required: true},
		{Name: "clbit", Required: true},
	},
}

// compileCircuit turns one `circuit` block into a validated Circuit.
func compileCircuit(ctx context.Context, block *hcl.Block) (*circuit.Circuit, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	name := block.Labels[0]

	content, diags := block.Body.Content(circuitBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var qubits int
	diags = append(diags, gohcl.DecodeExpression(content.Attributes["qubits"].Expr, nil, &qubits)...)
	if diags.HasErrors() {
		return nil, diags
	}

	c := circuit.New(qubits).WithName(name)

	if attr, exists := content.Attributes["metadata"]; exists {
		md, mdDiags := decodeMetadata(attr)
		diags = append(diags, mdDiags...)
		c.WithMetadata(md)
	}

	for _, inner := range content.Blocks {
		switch inner.Type {
		case "creg":
			diags = append(diags, compileCreg(c, inner)...)
		case "gate":
			diags = append(diags, compileGate(c, inner)...)
		case "measure":
			diags = append(diags, compileMeasure(c, inner)...)
		}
	}

	if attr, exists := content.Attributes["measure_all"]; exists {
		var all bool
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &all)...)
		if all {
			c.MeasureAll()
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}

	if err := c.Validate(); err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid circuit",
			Detail:   err.Error(),
			Subject:  &block.DefRange,
		}}
	}

	logger.Debug("Compiled circuit from manifest.",
		"circuit", name, "qubits", qubits, "gates", len(c.Gates()), "registers", len(c.Registers()))
	return c, nil
}

// compileCreg appends one classical register: `size` allocates fresh bits,
// `bits` aliases existing flat bits. Exactly one of the two must be set.
func compileCreg(c *circuit.Circuit, block *hcl.Block) hcl.Diagnostics {
	content, diags := block.Body.Content(cregBodySchema)
	if diags.HasErrors() {
		return diags
	}
	name := block.Labels[0]

	sizeAttr, hasSize := content.Attributes["size"]
	bitsAttr, hasBits := content.Attributes["bits"]
	if hasSize == hasBits {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid \"creg\" block",
			Detail:   fmt.Sprintf("Register %q must set exactly one of \"size\" or \"bits\".", name),
			Subject:  &block.DefRange,
		})
	}

	if hasSize {
		var size int
		diags = append(diags, gohcl.DecodeExpression(sizeAttr.Expr, nil, &size)...)
		if !diags.HasErrors() {
			c.AddRegister(name, size)
		}
		return diags
	}

	var bits []int
	diags = append(diags, gohcl.DecodeExpression(bitsAttr.Expr, nil, &bits)...)
	if !diags.HasErrors() {
		c.AddRegisterBits(name, bits)
	}
	return diags
}

// compileGate appends one gate. The block label is the opcode; `on` lists
// target qubits, `angle` carries a rotation argument (number literal or
// parameter name), and `matrix` carries a custom unitary.
func compileGate(c *circuit.Circuit, block *hcl.Block) hcl.Diagnostics {
	content, diags := block.Body.Content(gateBodySchema)
	if diags.HasErrors() {
		return diags
	}
	op := block.Labels[0]

	if !circuit.KnownOp(op) {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown gate",
			Detail:   fmt.Sprintf("Gate opcode %q is not supported.", op),
			Subject:  &block.DefRange,
		})
	}

	var on []int
	diags = append(diags, gohcl.DecodeExpression(content.Attributes["on"].Expr, nil, &on)...)
	if diags.HasErrors() {
		return diags
	}

	matrixAttr, hasMatrix := content.Attributes["matrix"]
	if (op == circuit.OpUnitary) != hasMatrix {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid \"gate\" block",
			Detail:   fmt.Sprintf("The \"matrix\" attribute is required for %q gates and not allowed on others.", circuit.OpUnitary),
			Subject:  &block.DefRange,
		})
	}
	if hasMatrix {
		matrix, matrixDiags := decodeComplexMatrix(matrixAttr)
		diags = append(diags, matrixDiags...)
		if !diags.HasErrors() {
			c.AppendUnitary(matrix, on...)
		}
		return diags
	}

	if angleAttr, hasAngle := content.Attributes["angle"]; hasAngle {
		arg, angleDiags := decodeAngle(angleAttr)
		diags = append(diags, angleDiags...)
		if !diags.HasErrors() {
			c.Append(op, on, arg)
		}
		return diags
	}

	c.Append(op, on)
	return diags
}

// compileMeasure appends one measure instruction.
func compileMeasure(c *circuit.Circuit, block *hcl.Block) hcl.Diagnostics {
	content, diags := block.Body.Content(measureBodySchema)
	if diags.HasErrors() {
		return diags
	}

	var qubit, clbit int
	diags = append(diags, gohcl.DecodeExpression(content.Attributes["qubit"].Expr, nil, &qubit)...)
	diags = append(diags, gohcl.DecodeExpression(content.Attributes["clbit"].Expr, nil, &clbit)...)
	if !diags.HasErrors() {
		c.Measure(qubit, clbit)
	}
	return diags
}
