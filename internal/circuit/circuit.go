// Package circuit defines the intermediate representation the sampler
// executes: a qubit count, a flat pool of classical bits grouped into named
// registers, an ordered gate list, and an ordered list of measure
// instructions mapping qubits onto classical bits.
//
// Builder methods record instructions without checking them; Validate
// performs the full structural check once, so callers get every error
// through one path.
package circuit

import (
	"fmt"
	"slices"
)

// ClassicalRegister is a named, ordered view over the circuit's flat
// classical bits. Bits[k] is the flat index backing register bit k.
// Registers created with AddRegisterBits may alias bits owned by other
// registers; width zero is legal.
type ClassicalRegister struct {
	Name string
	Bits []int
}

// Width returns the number of bits in the register.
func (r ClassicalRegister) Width() int { return len(r.Bits) }

// Measure maps one qubit onto one flat classical bit. When several
// measures target the same bit, the last one in program order wins.
type Measure struct {
	Qubit int
	Clbit int
}

// Circuit is a sampling program under construction or ready to run.
// The zero value is not usable; start from New or NewWithRegister.
type Circuit struct {
	Name     string
	Metadata map[string]any

	numQubits int
	numClbits int
	registers []ClassicalRegister
	gates     []Gate
	measures  []Measure

	params    []string
	paramSeen map[string]struct{}

	// buildErr holds the first malformed builder call, surfaced by Validate.
	buildErr error
}

// New returns a circuit over numQubits qubits and no classical registers.
func New(numQubits int) *Circuit {
	return &Circuit{
		numQubits: numQubits,
		paramSeen: map[string]struct{}{},
	}
}

// NewWithRegister returns a circuit with a single classical register named
// "c" of the given width, mirroring the common quantum-assembly default.
func NewWithRegister(numQubits, numClbits int) *Circuit {
	c := New(numQubits)
	c.AddRegister("c", numClbits)
	return c
}

// WithName sets the circuit name and returns the circuit.
func (c *Circuit) WithName(name string) *Circuit {
	c.Name = name
	return c
}

// WithMetadata attaches free-form metadata, echoed verbatim into the
// pub result.
func (c *Circuit) WithMetadata(md map[string]any) *Circuit {
	c.Metadata = md
	return c
}

// AddRegister appends a classical register of the given width, allocating
// fresh flat bits for it.
func (c *Circuit) AddRegister(name string, size int) *Circuit {
	bits := make([]int, size)
	for i := range bits {
		bits[i] = c.numClbits + i
	}
	c.numClbits += size
	c.registers = append(c.registers, ClassicalRegister{Name: name, Bits: bits})
	return c
}

// AddRegisterBits appends a register that aliases existing flat bits
// instead of allocating new ones. The indices must refer to bits already
// allocated by earlier AddRegister calls.
func (c *Circuit) AddRegisterBits(name string, bits []int) *Circuit {
	c.registers = append(c.registers, ClassicalRegister{Name: name, Bits: slices.Clone(bits)})
	return c
}

// Measure records a measurement of qubit q into flat classical bit cl.
func (c *Circuit) Measure(q, cl int) *Circuit {
	c.measures = append(c.measures, Measure{Qubit: q, Clbit: cl})
	return c
}

// MeasureAll appends a register named "meas" spanning every qubit and
// measures qubit i into its bit i.
func (c *Circuit) MeasureAll() *Circuit {
	base := c.numClbits
	c.AddRegister("meas", c.numQubits)
	for q := 0; q < c.numQubits; q++ {
		c.Measure(q, base+q)
	}
	return c
}

// NumQubits returns the qubit count.
func (c *Circuit) NumQubits() int { return c.numQubits }

// NumClbits returns the total number of allocated flat classical bits.
func (c *Circuit) NumClbits() int { return c.numClbits }

// Registers returns the classical registers in declaration order.
func (c *Circuit) Registers() []ClassicalRegister { return slices.Clone(c.registers) }

// Gates returns the gate list in program order.
func (c *Circuit) Gates() []Gate { return c.gates }

// Measures returns the measure instructions in program order.
func (c *Circuit) Measures() []Measure { return c.measures }

// Parameters returns the circuit's free parameter names in declared order,
// which is the order of first appearance in the gate list.
func (c *Circuit) Parameters() []string { return slices.Clone(c.params) }

// NumParameters returns the number of free parameters.
func (c *Circuit) NumParameters() int { return len(c.params) }

// Validate checks the whole circuit structurally: register naming and
// alias targets, gate arities and qubit indices, unitary matrices, and
// measure targets. It returns the first problem found.
func (c *Circuit) Validate() error {
	if c.buildErr != nil {
		return fmt.Errorf("circuit %q: %w", c.Name, c.buildErr)
	}
	if c.numQubits < 0 {
		return fmt.Errorf("circuit %q: negative qubit count %d", c.Name, c.numQubits)
	}
	seen := map[string]struct{}{}
	for _, reg := range c.registers {
		if reg.Name == "" {
			return fmt.Errorf("circuit %q: classical register with empty name", c.Name)
		}
		if _, dup := seen[reg.Name]; dup {
			return fmt.Errorf("circuit %q: duplicate classical register %q", c.Name, reg.Name)
		}
		seen[reg.Name] = struct{}{}
		for k, b := range reg.Bits {
			if b < 0 || b >= c.numClbits {
				return fmt.Errorf("circuit %q: register %q bit %d aliases flat bit %d, outside [0, %d)",
					c.Name, reg.Name, k, b, c.numClbits)
			}
		}
	}
	for i, g := range c.gates {
		if err := c.validateGate(g); err != nil {
			return fmt.Errorf("circuit %q: gate %d: %w", c.Name, i, err)
		}
	}
	for i, m := range c.measures {
		if m.Qubit < 0 || m.Qubit >= c.numQubits {
			return fmt.Errorf("circuit %q: measure %d: qubit %d outside [0, %d)", c.Name, i, m.Qubit, c.numQubits)
		}
		if m.Clbit < 0 || m.Clbit >= c.numClbits {
			return fmt.Errorf("circuit %q: measure %d: clbit %d outside [0, %d)", c.Name, i, m.Clbit, c.numClbits)
		}
	}
	return nil
}

func (c *Circuit) validateGate(g Gate) error {
	spec, ok := ops[g.Op]
	if !ok {
		return fmt.Errorf("unknown gate %q", g.Op)
	}
	wantQubits := spec.qubits
	if g.Op == OpUnitary {
		if len(g.Qubits) == 0 {
			return fmt.Errorf("unitary gate targets no qubits")
		}
		wantQubits = len(g.Qubits)
		if err := checkUnitary(g.Matrix, len(g.Qubits)); err != nil {
			return err
		}
	}
	if len(g.Qubits) != wantQubits {
		return fmt.Errorf("gate %q wants %d qubit(s), got %d", g.Op, wantQubits, len(g.Qubits))
	}
	qseen := map[int]struct{}{}
	for _, q := range g.Qubits {
		if q < 0 || q >= c.numQubits {
			return fmt.Errorf("gate %q: qubit %d outside [0, %d)", g.Op, q, c.numQubits)
		}
		if _, dup := qseen[q]; dup {
			return fmt.Errorf("gate %q: qubit %d repeated", g.Op, q)
		}
		qseen[q] = struct{}{}
	}
	if len(g.Args) != spec.args {
		return fmt.Errorf("gate %q wants %d angle(s), got %d", g.Op, spec.args, len(g.Args))
	}
	return nil
}
