// Package backend defines the contract between the sampling pipeline and
// a simulation engine, plus the named registry the application wires
// engines into. The pipeline never depends on a concrete engine; it asks
// the registry by name and drives whatever it gets.
package backend

import (
	"context"

	"github.com/qubelet/qsampler/internal/bindings"
	"github.com/qubelet/qsampler/internal/circuit"
)

// Run is the raw product of one simulation call: one flat classical bit
// vector per shot, each of the circuit's NumClbits width with values 0 or
// 1, plus engine-specific metadata echoed into the pub result.
type Run struct {
	Bits     [][]byte
	Metadata map[string]any
}

// Backend evaluates a circuit at one concrete binding point and samples
// it. Implementations must apply measure instructions in program order
// (the last write to a classical bit wins) and must be deterministic for
// equal (circuit, binding, shots, seed).
type Backend interface {
	Name() string
	Run(ctx context.Context, circ *circuit.Circuit, binding bindings.Binding, shots int, seed uint64) (*Run, error)
}

// Module is implemented by backend packages that self-register into a
// registry at application startup.
type Module interface {
	Register(r *Registry)
}
