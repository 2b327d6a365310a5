package app

import (
	"github.com/qubelet/qsampler/backends/statevector"
	"github.com/qubelet/qsampler/internal/backend"
)

// coreModules is the definitive list of all simulation backends that are
// compiled into the qsampler binary.
var coreModules = []backend.Module{
	&statevector.Module{},
}
