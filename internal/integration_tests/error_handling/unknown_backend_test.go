package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qubelet/qsampler/internal/testutil"
)

// TestErrorHandling_UnknownBackend_FailsTheRun validates that a manifest
// naming an unregistered backend fails before any job is dispatched, and
// that the error lists the backends that are available.
func TestErrorHandling_UnknownBackend_FailsTheRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	manifest := `
sampler {
  backend = "tensor-network"
}

circuit "bell" {
  qubits = 2

  measure_all = true
}

pub "run" {
  circuit = "bell"
}
`
	files := map[string]string{
		"bell.hcl": manifest,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), `unknown backend "tensor-network"`)
	require.Contains(t, result.Err.Error(), "statevector")
	require.NotContains(t, result.LogOutput, "📋 Job dispatched.")
}

// TestErrorHandling_BackendCapacity_SurfacesAsJobError validates that a
// backend refusing a circuit marks the job as failed and names the pub.
func TestErrorHandling_BackendCapacity_SurfacesAsJobError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// 30 qubits is over the statevector cap of 24.
	manifest := `
circuit "huge" {
  qubits = 30

  measure_all = true
}

pub "too-big" {
  circuit = "huge"
  shots   = 1
}
`
	files := map[string]string{
		"huge.hcl": manifest,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "pub 0")
	require.Contains(t, result.Err.Error(), "statevector capacity is 24")
}
