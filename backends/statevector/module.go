// Package statevector implements the reference simulation backend: a
// dense statevector evolved gate by gate, sampled shot by shot from the
// final joint distribution. It registers under the name "statevector".
package statevector

import "github.com/qubelet/qsampler/internal/backend"

// Module wires the statevector backend into a backend registry.
type Module struct{}

// Register implements backend.Module.
func (m *Module) Register(r *backend.Registry) {
	r.Register(NewBackend())
}
