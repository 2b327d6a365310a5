package statevector

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/qubelet/qsampler/internal/bindings"
	"github.com/qubelet/qsampler/internal/circuit"
)

// applyGate dispatches one instruction onto the state in place. Angles
// resolve through the binding; normalization guarantees coverage, so a
// missing parameter here is an internal inconsistency and surfaces as an
// error rather than a panic.
func applyGate(state []complex128, g circuit.Gate, binding bindings.Binding) error {
	switch g.Op {
	case circuit.OpCX:
		applyCX(state, g.Qubits[0], g.Qubits[1])
		return nil
	case circuit.OpCZ:
		applyCZ(state, g.Qubits[0], g.Qubits[1])
		return nil
	case circuit.OpSwap:
		applySwap(state, g.Qubits[0], g.Qubits[1])
		return nil
	case circuit.OpUnitary:
		applyUnitary(state, g.Qubits, g.Matrix)
		return nil
	default:
		var theta float64
		if len(g.Args) == 1 {
			v, err := g.Args[0].Resolve(binding)
			if err != nil {
				return err
			}
			theta = v
		}
		m, ok := singleQubitMatrix(g.Op, theta)
		if !ok {
			return fmt.Errorf("opcode not supported by the statevector engine")
		}
		applySingle(state, g.Qubits[0], m)
		return nil
	}
}

// singleQubitMatrix returns the 2x2 matrix {m00, m01, m10, m11} of a
// one-qubit opcode.
func singleQubitMatrix(op string, theta float64) ([4]complex128, bool) {
	s := complex(1/math.Sqrt2, 0)
	switch op {
	case circuit.OpID:
		return [4]complex128{1, 0, 0, 1}, true
	case circuit.OpX:
		return [4]complex128{0, 1, 1, 0}, true
	case circuit.OpY:
		return [4]complex128{0, -1i, 1i, 0}, true
	case circuit.OpZ:
		return [4]complex128{1, 0, 0, -1}, true
	case circuit.OpH:
		return [4]complex128{s, s, s, -s}, true
	case circuit.OpS:
		return [4]complex128{1, 0, 0, 1i}, true
	case circuit.OpSdg:
		return [4]complex128{1, 0, 0, -1i}, true
	case circuit.OpT:
		return [4]complex128{1, 0, 0, cmplx.Exp(1i * math.Pi / 4)}, true
	case circuit.OpTdg:
		return [4]complex128{1, 0, 0, cmplx.Exp(-1i * math.Pi / 4)}, true
	case circuit.OpSX:
		return [4]complex128{
			complex(0.5, 0.5), complex(0.5, -0.5),
			complex(0.5, -0.5), complex(0.5, 0.5),
		}, true
	case circuit.OpRX:
		c, sn := complex(math.Cos(theta/2), 0), complex(0, -math.Sin(theta/2))
		return [4]complex128{c, sn, sn, c}, true
	case circuit.OpRY:
		c, sn := complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
		return [4]complex128{c, -sn, sn, c}, true
	case circuit.OpRZ:
		return [4]complex128{cmplx.Exp(complex(0, -theta/2)), 0, 0, cmplx.Exp(complex(0, theta/2))}, true
	case circuit.OpP:
		return [4]complex128{1, 0, 0, cmplx.Exp(complex(0, theta))}, true
	default:
		return [4]complex128{}, false
	}
}

// applySingle applies a 2x2 matrix to qubit q. Qubit q's value is bit q
// of the basis index, so amplitudes pair up at distance 1<<q.
func applySingle(state []complex128, q int, m [4]complex128) {
	step := 1 << q
	for base := 0; base < len(state); base += step * 2 {
		for i := base; i < base+step; i++ {
			a0, a1 := state[i], state[i+step]
			state[i] = m[0]*a0 + m[1]*a1
			state[i+step] = m[2]*a0 + m[3]*a1
		}
	}
}

// applyCX flips the target bit of every amplitude whose control bit is set.
func applyCX(state []complex128, control, target int) {
	cMask, tMask := 1<<control, 1<<target
	for i := range state {
		if i&cMask != 0 && i&tMask == 0 {
			state[i], state[i|tMask] = state[i|tMask], state[i]
		}
	}
}

// applyCZ negates every amplitude with both bits set.
func applyCZ(state []complex128, a, b int) {
	mask := 1<<a | 1<<b
	for i := range state {
		if i&mask == mask {
			state[i] = -state[i]
		}
	}
}

// applySwap exchanges the two qubit bits of every basis index.
func applySwap(state []complex128, a, b int) {
	aMask, bMask := 1<<a, 1<<b
	for i := range state {
		if i&aMask != 0 && i&bMask == 0 {
			state[i], state[i&^aMask|bMask] = state[i&^aMask|bMask], state[i]
		}
	}
}

// applyUnitary applies a dim x dim matrix over k target qubits. Local
// basis index j has bit b equal to the value of qubit qubits[b].
func applyUnitary(state []complex128, qubits []int, matrix []complex128) {
	k := len(qubits)
	dim := 1 << k

	// Offsets of each local basis state relative to a base index with all
	// target bits clear.
	offsets := make([]int, dim)
	for j := 1; j < dim; j++ {
		off := 0
		for b := 0; b < k; b++ {
			if j&(1<<b) != 0 {
				off |= 1 << qubits[b]
			}
		}
		offsets[j] = off
	}
	targetMask := 0
	for _, q := range qubits {
		targetMask |= 1 << q
	}

	old := make([]complex128, dim)
	for base := 0; base < len(state); base++ {
		if base&targetMask != 0 {
			continue
		}
		for j := 0; j < dim; j++ {
			old[j] = state[base|offsets[j]]
		}
		for j := 0; j < dim; j++ {
			var acc complex128
			for l := 0; l < dim; l++ {
				acc += matrix[j*dim+l] * old[l]
			}
			state[base|offsets[j]] = acc
		}
	}
}
