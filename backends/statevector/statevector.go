package statevector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/qubelet/qsampler/internal/backend"
	"github.com/qubelet/qsampler/internal/bindings"
	"github.com/qubelet/qsampler/internal/circuit"
	"github.com/qubelet/qsampler/internal/ctxlog"
)

// DefaultMaxQubits bounds the dense state size. 24 qubits is 256 MiB of
// complex128 amplitudes, which is where a laptop stops being fun.
const DefaultMaxQubits = 24

// Backend is a dense statevector simulator.
type Backend struct {
	maxQubits int
}

// NewBackend returns a statevector backend with the default qubit cap.
func NewBackend() *Backend {
	return &Backend{maxQubits: DefaultMaxQubits}
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return "statevector" }

// Run implements backend.Backend: evolve the state at one binding point,
// then draw `shots` basis indices from the final distribution and map
// them through the circuit's measure instructions.
func (b *Backend) Run(ctx context.Context, circ *circuit.Circuit, binding bindings.Binding, shots int, seed uint64) (*backend.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := circ.NumQubits()
	if n > b.maxQubits {
		return nil, fmt.Errorf("circuit has %d qubits, statevector capacity is %d", n, b.maxQubits)
	}
	start := time.Now()

	state := make([]complex128, 1<<n)
	state[0] = 1
	for i, g := range circ.Gates() {
		if err := applyGate(state, g, binding); err != nil {
			return nil, fmt.Errorf("gate %d (%s): %w", i, g.Op, err)
		}
	}

	probs := make([]float64, len(state))
	for i, amp := range state {
		re, im := real(amp), imag(amp)
		probs[i] = re*re + im*im
	}
	total := floats.Sum(probs)
	if total <= 0 {
		return nil, fmt.Errorf("state has no probability mass")
	}
	cum := make([]float64, len(probs))
	floats.CumSum(cum, probs)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	measures := circ.Measures()
	rows := make([][]byte, shots)
	width := circ.NumClbits()
	for s := 0; s < shots; s++ {
		r := rng.Float64() * total
		// First strictly-greater cumulative entry, so zero-probability
		// prefixes can never be drawn.
		idx := sort.Search(len(cum), func(i int) bool { return cum[i] > r })
		if idx >= len(cum) {
			idx = len(cum) - 1
		}
		row := make([]byte, width)
		for _, m := range measures {
			row[m.Clbit] = byte(idx>>m.Qubit) & 1
		}
		rows[s] = row
	}

	elapsed := time.Since(start)
	ctxlog.FromContext(ctx).Debug("🧮 Statevector simulation complete.",
		"qubits", n, "gates", len(circ.Gates()), "shots", shots, "elapsed", elapsed)

	return &backend.Run{
		Bits: rows,
		Metadata: map[string]any{
			"method":     "statevector",
			"num_qubits": n,
			"time_taken": elapsed.Seconds(),
		},
	}, nil
}
