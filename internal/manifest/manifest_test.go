package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qubelet/qsampler/internal/bindings"
	"github.com/qubelet/qsampler/internal/circuit"
	"github.com/qubelet/qsampler/internal/ctxlog"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

// writeManifests lays the given files out under a fresh temp dir and
// returns its path.
func writeManifests(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestLoad_FullBatch(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"bell.hcl": `
sampler {
  default_shots = 2000
  seed          = 7
  workers       = 2
  backend       = "statevector"
}

circuit "bell" {
  qubits = 2

  creg "meas" { size = 2 }

  gate "h"  { on = [0] }
  gate "cx" { on = [0, 1] }

  measure {
    qubit = 0
    clbit = 0
  }
  measure {
    qubit = 1
    clbit = 1
  }

  metadata = { author = "qubelet" }
}

pub "bell-run" {
  circuit = "bell"
  shots   = 5000
}
`,
	})

	batch, err := Load(testContext(), dir)
	require.NoError(t, err)

	require.NotNil(t, batch.Sampler.DefaultShots)
	assert.Equal(t, 2000, *batch.Sampler.DefaultShots)
	require.NotNil(t, batch.Sampler.Seed)
	assert.Equal(t, uint64(7), *batch.Sampler.Seed)
	require.NotNil(t, batch.Sampler.Workers)
	assert.Equal(t, 2, *batch.Sampler.Workers)
	require.NotNil(t, batch.Sampler.Backend)
	assert.Equal(t, "statevector", *batch.Sampler.Backend)

	require.Len(t, batch.Entries, 1)
	entry := batch.Entries[0]
	assert.Equal(t, "bell-run", entry.Name)
	require.NotNil(t, entry.Spec.Shots)
	assert.Equal(t, 5000, *entry.Spec.Shots)

	circ := entry.Spec.Circuit
	require.NotNil(t, circ)
	assert.Equal(t, "bell", circ.Name)
	assert.Equal(t, 2, circ.NumQubits())
	assert.Equal(t, map[string]any{"author": "qubelet"}, circ.Metadata)

	regs := circ.Registers()
	require.Len(t, regs, 1)
	assert.Equal(t, "meas", regs[0].Name)
	assert.Equal(t, []int{0, 1}, regs[0].Bits)

	gates := circ.Gates()
	require.Len(t, gates, 2)
	assert.Equal(t, circuit.OpH, gates[0].Op)
	assert.Equal(t, []int{0, 1}, gates[1].Qubits)

	measures := circ.Measures()
	require.Len(t, measures, 2)
	assert.Equal(t, circuit.Measure{Qubit: 1, Clbit: 1}, measures[1])

	specs := batch.Specs()
	require.Len(t, specs, 1)
	assert.Same(t, circ, specs[0].Circuit)
}

func TestLoad_CrossFileReferences(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"a_pubs.hcl": `
pub "first" {
  circuit = "ghz"
}
`,
		"b_circuits.hcl": `
circuit "ghz" {
  qubits      = 3
  creg "meas" { size = 3 }
  gate "h"  { on = [0] }
  gate "cx" { on = [0, 1] }
  gate "cx" { on = [1, 2] }
  measure_all = false
  measure {
    qubit = 0
    clbit = 0
  }
}

pub "second" {
  circuit = "ghz"
  shots   = 10
}
`,
	})

	batch, err := Load(testContext(), dir)
	require.NoError(t, err)

	require.Len(t, batch.Entries, 2)
	assert.Equal(t, "first", batch.Entries[0].Name)
	assert.Equal(t, "second", batch.Entries[1].Name)
	assert.Same(t, batch.Entries[0].Spec.Circuit, batch.Entries[1].Spec.Circuit)
	assert.Nil(t, batch.Entries[0].Spec.Shots)
}

func TestLoad_NamedParams(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"sweep.hcl": `
circuit "sweep" {
  qubits  = 2
  creg "c" { size = 2 }
  gate "rx" {
    on    = [0]
    angle = "theta"
  }
  gate "ry" {
    on    = [1]
    angle = "phi"
  }
  measure_all = true
}

pub "grid" {
  circuit = "sweep"
  params = {
    theta = [0, 1.5707963]
    phi   = [0, 3.1415926]
  }
}
`,
	})

	batch, err := Load(testContext(), dir)
	require.NoError(t, err)
	require.Len(t, batch.Entries, 1)

	spec := batch.Entries[0].Spec
	arr, err := bindings.Parse(spec.Params, spec.Circuit.Parameters())
	require.NoError(t, err)
	assert.Equal(t, []string{"theta", "phi"}, arr.Names())
	assert.Equal(t, []int{2}, arr.Shape())
	assert.InDelta(t, 3.1415926, arr.At(1)["phi"], 1e-9)
}

func TestLoad_GroupedParamKey(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"grouped.hcl": `
circuit "pair" {
  qubits  = 1
  creg "c" { size = 1 }
  gate "rx" {
    on    = [0]
    angle = "a"
  }
  gate "rz" {
    on    = [0]
    angle = "b"
  }
  measure {
    qubit = 0
    clbit = 0
  }
}

pub "pairs" {
  circuit = "pair"
  params = {
    "a,b" = [[0.1, 0.2], [0.3, 0.4]]
  }
}
`,
	})

	batch, err := Load(testContext(), dir)
	require.NoError(t, err)

	spec := batch.Entries[0].Spec
	arr, err := bindings.Parse(spec.Params, spec.Circuit.Parameters())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, arr.Shape())
	assert.InDelta(t, 0.4, arr.At(1)["b"], 1e-9)
}

func TestLoad_PositionalValues(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"positional.hcl": `
circuit "rot" {
  qubits  = 1
  creg "c" { size = 1 }
  gate "rx" {
    on    = [0]
    angle = "theta"
  }
  measure {
    qubit = 0
    clbit = 0
  }
}

pub "swept" {
  circuit = "rot"
  values  = [[0], [1.5707963], [3.1415926]]
}
`,
	})

	batch, err := Load(testContext(), dir)
	require.NoError(t, err)

	spec := batch.Entries[0].Spec
	arr, err := bindings.Parse(spec.Params, spec.Circuit.Parameters())
	require.NoError(t, err)
	assert.Equal(t, []int{3}, arr.Shape())
	assert.InDelta(t, 1.5707963, arr.At(1)["theta"], 1e-9)
}

func TestLoad_UnitaryMatrix(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"unitary.hcl": `
circuit "custom" {
  qubits  = 1
  creg "c" { size = 1 }
  gate "unitary" {
    on     = [0]
    matrix = [[0, [0, -1]], [[0, 1], 0]]
  }
  measure {
    qubit = 0
    clbit = 0
  }
}

pub "run" {
  circuit = "custom"
}
`,
	})

	batch, err := Load(testContext(), dir)
	require.NoError(t, err)

	gates := batch.Entries[0].Spec.Circuit.Gates()
	require.Len(t, gates, 1)
	require.Equal(t, circuit.OpUnitary, gates[0].Op)
	// Pauli-Y: [[0, -i], [i, 0]].
	assert.Equal(t, []complex128{0, complex(0, -1), complex(0, 1), 0}, gates[0].Matrix)
}

func TestLoad_MeasureAllShorthand(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"all.hcl": `
circuit "flat" {
  qubits      = 3
  gate "x"    { on = [1] }
  measure_all = true
}

pub "run" {
  circuit = "flat"
}
`,
	})

	batch, err := Load(testContext(), dir)
	require.NoError(t, err)

	circ := batch.Entries[0].Spec.Circuit
	regs := circ.Registers()
	require.Len(t, regs, 1)
	assert.Equal(t, "meas", regs[0].Name)
	assert.Equal(t, 3, regs[0].Width())
	assert.Len(t, circ.Measures(), 3)
}

func TestLoad_AliasedCreg(t *testing.T) {
	t.Parallel()

	dir := writeManifests(t, map[string]string{
		"alias.hcl": `
circuit "aliased" {
  qubits = 2
  creg "c"    { size = 2 }
  creg "last" { bits = [1] }
  measure {
    qubit = 0
    clbit = 0
  }
  measure {
    qubit = 1
    clbit = 1
  }
}

pub "run" {
  circuit = "aliased"
}
`,
	})

	batch, err := Load(testContext(), dir)
	require.NoError(t, err)

	regs := batch.Entries[0].Spec.Circuit.Registers()
	require.Len(t, regs, 2)
	assert.Equal(t, []int{1}, regs[1].Bits)
}

func TestLoad_NoFiles(t *testing.T) {
	t.Parallel()

	batch, err := Load(testContext(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, batch.Entries)
	assert.Nil(t, batch.Sampler.DefaultShots)
}

func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name: "syntax error",
			files: map[string]string{
				"broken.hcl": `circuit "x" {`,
			},
			wantErr: "failed to parse manifest file",
		},
		{
			name: "unknown top-level block",
			files: map[string]string{
				"odd.hcl": "widget \"x\" {\n}\n",
			},
			wantErr: "invalid manifest file",
		},
		{
			name: "duplicate circuit across files",
			files: map[string]string{
				"a.hcl": "circuit \"dup\" {\n  qubits = 1\n  creg \"c\" { size = 1 }\n}\n",
				"b.hcl": "circuit \"dup\" {\n  qubits = 1\n  creg \"c\" { size = 1 }\n}\n",
			},
			wantErr: "Duplicate \"circuit\" block",
		},
		{
			name: "duplicate sampler",
			files: map[string]string{
				"a.hcl": "sampler {\n  default_shots = 1\n}\n",
				"b.hcl": "sampler {\n  default_shots = 2\n}\n",
			},
			wantErr: "Duplicate \"sampler\" block",
		},
		{
			name: "unknown circuit reference",
			files: map[string]string{
				"p.hcl": "circuit \"known\" {\n  qubits = 1\n}\npub \"run\" {\n  circuit = \"unknown\"\n}\n",
			},
			wantErr: "Unknown circuit reference",
		},
		{
			name: "params and values together",
			files: map[string]string{
				"p.hcl": "circuit \"c\" {\n  qubits = 1\n}\npub \"run\" {\n  circuit = \"c\"\n  params  = { a = 1 }\n  values  = [[1]]\n}\n",
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "creg with size and bits",
			files: map[string]string{
				"c.hcl": "circuit \"c\" {\n  qubits = 1\n  creg \"r\" {\n    size = 1\n    bits = [0]\n  }\n}\n",
			},
			wantErr: "exactly one of \"size\" or \"bits\"",
		},
		{
			name: "unknown gate opcode",
			files: map[string]string{
				"c.hcl": "circuit \"c\" {\n  qubits = 1\n  gate \"warp\" { on = [0] }\n}\n",
			},
			wantErr: "Unknown gate",
		},
		{
			name: "matrix on a plain gate",
			files: map[string]string{
				"c.hcl": "circuit \"c\" {\n  qubits = 1\n  gate \"h\" {\n    on     = [0]\n    matrix = [[1]]\n  }\n}\n",
			},
			wantErr: "matrix",
		},
		{
			name: "gate qubit out of range",
			files: map[string]string{
				"c.hcl": "circuit \"c\" {\n  qubits = 1\n  gate \"h\" { on = [4] }\n}\n",
			},
			wantErr: "Invalid circuit",
		},
		{
			name: "ragged matrix rows",
			files: map[string]string{
				"c.hcl": "circuit \"c\" {\n  qubits = 1\n  gate \"unitary\" {\n    on     = [0]\n    matrix = [[1, 0], [0]]\n  }\n}\n",
			},
			wantErr: "matrix row 1 has 1 entries, want 2",
		},
		{
			name: "negative seed",
			files: map[string]string{
				"s.hcl": "sampler {\n  seed = -4\n}\n",
			},
			wantErr: "invalid manifest file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := writeManifests(t, tc.files)
			_, err := Load(testContext(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
