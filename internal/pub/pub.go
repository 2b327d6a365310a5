// Package pub turns the loosely typed pub-like values callers may submit
// into fully validated units of work. A pub-like is a bare circuit, a Spec
// (circuit plus optional parameter values plus optional shots), or an
// already built Pub; a batch is any slice or iterator sequence of those.
//
// Everything that can be rejected is rejected here, before a job is
// dispatched: circuit structure, parameter coverage and broadcasting,
// and shot counts at every level.
package pub

import (
	"fmt"

	"github.com/qubelet/qsampler/internal/bindings"
	"github.com/qubelet/qsampler/internal/circuit"
	"github.com/qubelet/qsampler/internal/layout"
)

// Spec is the tuple-like pub form: just a circuit, optionally parameter
// values in any form bindings.Parse accepts, optionally an explicit shot
// count. A nil Shots defers to the batch default; an explicit non-positive
// value is a validation error.
type Spec struct {
	Circuit *circuit.Circuit
	Params  any
	Shots   *int
}

// ShotCount is a convenience for Spec literals with an explicit count.
func ShotCount(n int) *int { return &n }

// Pub is one normalized, validated unit of work.
type Pub struct {
	Circuit  *circuit.Circuit
	Bindings *bindings.Array
	Layout   layout.Layout
	Shots    int

	// Warnings collects degenerate-but-legal conditions found during
	// normalization, echoed into the pub's result metadata.
	Warnings []string
}

// Shape returns the pub's broadcast shape.
func (p *Pub) Shape() []int { return p.Bindings.Shape() }

// NumPoints returns the number of binding points, which is the number of
// simulation calls the pub costs.
func (p *Pub) NumPoints() int { return p.Bindings.NumPoints() }

// New builds an explicit pub object. Unlike the Spec form, an explicit pub
// carries its own shot count, which must be positive.
func New(c *circuit.Circuit, params any, shots int) (*Pub, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be a positive integer, got %d", shots)
	}
	return build(c, params, shots)
}

// build runs the shared validation pipeline with a resolved shot count.
func build(c *circuit.Circuit, params any, shots int) (*Pub, error) {
	if c == nil {
		return nil, fmt.Errorf("pub has no circuit")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	arr, err := bindings.Parse(params, c.Parameters())
	if err != nil {
		return nil, err
	}
	lay := layout.FromCircuit(c)
	p := &Pub{Circuit: c, Bindings: arr, Layout: lay, Shots: shots}
	if lay.Empty() {
		p.Warnings = append(p.Warnings, "circuit has no classical registers: result data will be empty")
	}
	return p, nil
}
