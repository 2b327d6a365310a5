// Package layout derives the classical-register layout of a circuit: the
// ordered set of named registers, each mapping its bits onto the circuit's
// flat classical bit pool. The layout is computed once per pub during
// normalization and shared by aggregation and result assembly.
package layout

import (
	"slices"

	"github.com/qubelet/qsampler/internal/circuit"
)

// RegisterSpec names one register and lists the flat bit index backing
// each of its bits. Bits[k] backs register bit k.
type RegisterSpec struct {
	Name string
	Bits []int
}

// Width returns the register's bit width.
func (r RegisterSpec) Width() int { return len(r.Bits) }

// Layout is the classical shape of one circuit: every register in
// declaration order plus the flat bit count raw outcomes must have.
type Layout struct {
	Registers []RegisterSpec
	TotalBits int
}

// FromCircuit extracts the layout of a validated circuit.
func FromCircuit(c *circuit.Circuit) Layout {
	regs := c.Registers()
	specs := make([]RegisterSpec, 0, len(regs))
	for _, reg := range regs {
		specs = append(specs, RegisterSpec{Name: reg.Name, Bits: slices.Clone(reg.Bits)})
	}
	return Layout{Registers: specs, TotalBits: c.NumClbits()}
}

// Empty reports whether the circuit declared no classical registers at
// all. Such pubs still execute but aggregate to an empty data mapping.
func (l Layout) Empty() bool { return len(l.Registers) == 0 }

// Names returns the register names in declaration order.
func (l Layout) Names() []string {
	names := make([]string, len(l.Registers))
	for i, r := range l.Registers {
		names[i] = r.Name
	}
	return names
}
