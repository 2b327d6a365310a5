package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qubelet/qsampler/internal/testutil"
)

// TestManifestValidation_UnknownCircuitReference_IsRejected validates that a
// pub naming a circuit no file defines fails with a resolution error that
// lists the circuits that do exist.
func TestManifestValidation_UnknownCircuitReference_IsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	manifest := `
circuit "bell" {
  qubits = 2

  measure_all = true
}

pub "typo" {
  circuit = "belle"
}
`
	files := map[string]string{
		"typo.hcl": manifest,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.Error(t, result.Err, "a dangling circuit reference should fail the run")
	require.Contains(t, result.Err.Error(), "Unknown circuit reference")
	require.Contains(t, result.Err.Error(), "bell")
}

// TestManifestValidation_InvalidCircuit_IsRejected validates that circuit
// compilation errors, here a gate addressing a qubit outside the circuit,
// surface with the circuit's source location.
func TestManifestValidation_InvalidCircuit_IsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	manifest := `
circuit "outside" {
  qubits = 1

  gate "x" {
    on = [3]
  }

  measure_all = true
}

pub "run" {
  circuit = "outside"
}
`
	files := map[string]string{
		"outside.hcl": manifest,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "Invalid circuit")
}
