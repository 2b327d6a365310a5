package circuit

import (
	"fmt"
	"slices"
)

// Gate opcodes understood by the validator and the reference backend.
const (
	OpID      = "id"
	OpX       = "x"
	OpY       = "y"
	OpZ       = "z"
	OpH       = "h"
	OpS       = "s"
	OpSdg     = "sdg"
	OpT       = "t"
	OpTdg     = "tdg"
	OpSX      = "sx"
	OpRX      = "rx"
	OpRY      = "ry"
	OpRZ      = "rz"
	OpP       = "p"
	OpCX      = "cx"
	OpCZ      = "cz"
	OpSwap    = "swap"
	OpUnitary = "unitary"
)

type opSpec struct {
	qubits int
	args   int
}

// ops maps an opcode to its fixed arity. The unitary opcode is variadic in
// qubits; its entry holds zeroes and Validate special-cases it.
var ops = map[string]opSpec{
	OpID: {1, 0}, OpX: {1, 0}, OpY: {1, 0}, OpZ: {1, 0},
	OpH: {1, 0}, OpS: {1, 0}, OpSdg: {1, 0}, OpT: {1, 0}, OpTdg: {1, 0}, OpSX: {1, 0},
	OpRX: {1, 1}, OpRY: {1, 1}, OpRZ: {1, 1}, OpP: {1, 1},
	OpCX: {2, 0}, OpCZ: {2, 0}, OpSwap: {2, 0},
	OpUnitary: {0, 0},
}

// KnownOp reports whether op is a recognized gate opcode.
func KnownOp(op string) bool {
	_, ok := ops[op]
	return ok
}

// Arg is one angle argument of a gate: either a literal value or a
// reference to a named free parameter bound at execution time.
type Arg struct {
	Value float64
	Param string
}

// Lit wraps a literal angle.
func Lit(v float64) Arg { return Arg{Value: v} }

// Ref wraps a reference to the named free parameter.
func Ref(name string) Arg { return Arg{Param: name} }

// IsParam reports whether the argument is a parameter reference.
func (a Arg) IsParam() bool { return a.Param != "" }

// Resolve returns the concrete angle, looking parameter references up in
// the binding.
func (a Arg) Resolve(binding map[string]float64) (float64, error) {
	if !a.IsParam() {
		return a.Value, nil
	}
	v, ok := binding[a.Param]
	if !ok {
		return 0, fmt.Errorf("parameter %q has no bound value", a.Param)
	}
	return v, nil
}

// Gate is one instruction in the circuit's program order. Matrix is set
// only for the unitary opcode and holds a row-major 2^k x 2^k matrix over
// the gate's k target qubits.
type Gate struct {
	Op     string
	Qubits []int
	Args   []Arg
	Matrix []complex128
}

// Append records a gate built from raw parts. The manifest loader uses
// this form; programmatic callers usually prefer the named methods below.
func (c *Circuit) Append(op string, qubits []int, args ...Arg) *Circuit {
	c.gates = append(c.gates, Gate{Op: op, Qubits: slices.Clone(qubits), Args: args})
	for _, a := range args {
		c.registerParam(a)
	}
	return c
}

// AppendUnitary records a custom-matrix gate over the given qubits.
func (c *Circuit) AppendUnitary(matrix []complex128, qubits ...int) *Circuit {
	c.gates = append(c.gates, Gate{Op: OpUnitary, Qubits: slices.Clone(qubits), Matrix: slices.Clone(matrix)})
	return c
}

func (c *Circuit) registerParam(a Arg) {
	if !a.IsParam() {
		return
	}
	if _, ok := c.paramSeen[a.Param]; ok {
		return
	}
	c.paramSeen[a.Param] = struct{}{}
	c.params = append(c.params, a.Param)
}

// coerceAngle accepts the value shapes an angle arrives in: a literal
// number from Go code or a decoded manifest, a parameter name as a string,
// or an already-built Arg.
func coerceAngle(v any) (Arg, error) {
	switch t := v.(type) {
	case Arg:
		return t, nil
	case string:
		if t == "" {
			return Arg{}, fmt.Errorf("empty parameter name")
		}
		return Ref(t), nil
	case float64:
		return Lit(t), nil
	case float32:
		return Lit(float64(t)), nil
	case int:
		return Lit(float64(t)), nil
	default:
		return Arg{}, fmt.Errorf("angle must be a number or a parameter name, got %T", v)
	}
}

// appendAngle records a one-qubit gate with a single angle argument,
// deferring angle coercion failures to Validate.
func (c *Circuit) appendAngle(op string, theta any, q int) *Circuit {
	a, err := coerceAngle(theta)
	if err != nil {
		if c.buildErr == nil {
			c.buildErr = fmt.Errorf("gate %q on qubit %d: %w", op, q, err)
		}
		return c
	}
	return c.Append(op, []int{q}, a)
}

// I appends an identity gate on qubit q.
func (c *Circuit) I(q int) *Circuit { return c.Append(OpID, []int{q}) }

// X appends a Pauli-X gate on qubit q.
func (c *Circuit) X(q int) *Circuit { return c.Append(OpX, []int{q}) }

// Y appends a Pauli-Y gate on qubit q.
func (c *Circuit) Y(q int) *Circuit { return c.Append(OpY, []int{q}) }

// Z appends a Pauli-Z gate on qubit q.
func (c *Circuit) Z(q int) *Circuit { return c.Append(OpZ, []int{q}) }

// H appends a Hadamard gate on qubit q.
func (c *Circuit) H(q int) *Circuit { return c.Append(OpH, []int{q}) }

// S appends a phase-S gate on qubit q.
func (c *Circuit) S(q int) *Circuit { return c.Append(OpS, []int{q}) }

// Sdg appends the inverse phase-S gate on qubit q.
func (c *Circuit) Sdg(q int) *Circuit { return c.Append(OpSdg, []int{q}) }

// T appends a T gate on qubit q.
func (c *Circuit) T(q int) *Circuit { return c.Append(OpT, []int{q}) }

// Tdg appends the inverse T gate on qubit q.
func (c *Circuit) Tdg(q int) *Circuit { return c.Append(OpTdg, []int{q}) }

// SX appends a square-root-of-X gate on qubit q.
func (c *Circuit) SX(q int) *Circuit { return c.Append(OpSX, []int{q}) }

// RX appends an X-axis rotation on qubit q. The angle may be a number, a
// parameter name, or an Arg.
func (c *Circuit) RX(theta any, q int) *Circuit { return c.appendAngle(OpRX, theta, q) }

// RY appends a Y-axis rotation on qubit q.
func (c *Circuit) RY(theta any, q int) *Circuit { return c.appendAngle(OpRY, theta, q) }

// RZ appends a Z-axis rotation on qubit q.
func (c *Circuit) RZ(theta any, q int) *Circuit { return c.appendAngle(OpRZ, theta, q) }

// P appends a phase gate on qubit q.
func (c *Circuit) P(lambda any, q int) *Circuit { return c.appendAngle(OpP, lambda, q) }

// CX appends a controlled-X gate with the given control and target.
func (c *Circuit) CX(control, target int) *Circuit {
	return c.Append(OpCX, []int{control, target})
}

// CZ appends a controlled-Z gate.
func (c *Circuit) CZ(control, target int) *Circuit {
	return c.Append(OpCZ, []int{control, target})
}

// Swap appends a swap gate.
func (c *Circuit) Swap(a, b int) *Circuit { return c.Append(OpSwap, []int{a, b}) }
