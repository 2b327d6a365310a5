package bindings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NilForParameterlessCircuit(t *testing.T) {
	t.Parallel()

	a, err := Parse(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []int{}, a.Shape())
	assert.Equal(t, 1, a.NumPoints(), "a parameterless pub still executes once")
	assert.Empty(t, a.At(0))
}

func TestParse_NilWithParametersDeclared(t *testing.T) {
	t.Parallel()

	_, err := Parse(nil, []string{"theta", "phi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no values were given")
	assert.Contains(t, err.Error(), "theta, phi")
}

func TestParse_ValuesForParameterlessCircuit(t *testing.T) {
	t.Parallel()

	_, err := Parse([]float64{1, 2}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no parameters")

	_, err = Parse(map[string]any{"x": 1.0}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no parameters")
}

func TestParse_EmptyPositionalForParameterlessCircuit(t *testing.T) {
	t.Parallel()

	a, err := Parse([]any{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, a.NumPoints())
}

func TestParse_PositionalSinglePoint(t *testing.T) {
	t.Parallel()

	a, err := Parse([]float64{0.1, 0.2, 0.3}, []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, []int{}, a.Shape())
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, a.ValuesAt(0))
	assert.Equal(t, Binding{"a": 0.1, "b": 0.2, "c": 0.3}, a.At(0))
}

func TestParse_PositionalSweep(t *testing.T) {
	t.Parallel()

	vals := [][]float64{{0, 0}, {1, 2}, {3, 4}}

	a, err := Parse(vals, []string{"x", "y"})

	require.NoError(t, err)
	assert.Equal(t, []int{3}, a.Shape())
	assert.Equal(t, 3, a.NumPoints())
	assert.Equal(t, []float64{3, 4}, a.ValuesAt(2))
}

func TestParse_PositionalArityMismatch(t *testing.T) {
	t.Parallel()

	_, err := Parse([]float64{1, 2}, []string{"a", "b", "c"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "carries 2 value(s)")
	assert.Contains(t, err.Error(), "declares 3 parameter(s)")
}

func TestParse_PositionalEmptyWithParameters(t *testing.T) {
	t.Parallel()

	_, err := Parse([]any{}, []string{"a"})
	require.Error(t, err)
}

func TestParse_NamedScalars(t *testing.T) {
	t.Parallel()

	a, err := Parse(map[string]any{"x": 0.5, "y": 1.5}, []string{"x", "y"})

	require.NoError(t, err)
	assert.Equal(t, []int{}, a.Shape())
	assert.Equal(t, Binding{"x": 0.5, "y": 1.5}, a.At(0))
}

func TestParse_NamedSweepBroadcastsAgainstScalar(t *testing.T) {
	t.Parallel()

	a, err := Parse(map[string]any{
		"x": []float64{0, 1, 2},
		"y": 9.0,
	}, []string{"x", "y"})

	require.NoError(t, err)
	assert.Equal(t, []int{3}, a.Shape())
	assert.Equal(t, Binding{"x": 1, "y": 9}, a.At(1))
	assert.Equal(t, Binding{"x": 2, "y": 9}, a.At(2))
}

func TestParse_NamedGroupKey(t *testing.T) {
	t.Parallel()

	a, err := Parse(map[string]any{
		"a, b, c": [][]float64{{1, 2, 3}, {4, 5, 6}},
	}, []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, []int{2}, a.Shape())
	assert.Equal(t, []float64{4, 5, 6}, a.ValuesAt(1))
}

func TestParse_NamedGroupAxisMismatch(t *testing.T) {
	t.Parallel()

	_, err := Parse(map[string]any{
		"a,b": []float64{1, 2, 3},
	}, []string{"a", "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing axis of length 2")
}

func TestParse_NamedUnknownParameter(t *testing.T) {
	t.Parallel()

	_, err := Parse(map[string]any{"zeta": 1.0}, []string{"theta"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown parameter "zeta"`)
}

func TestParse_NamedPartialCoverage(t *testing.T) {
	t.Parallel()

	_, err := Parse(map[string]any{"a": 1.0}, []string{"a", "b", "c"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing values for parameter(s): b, c")
}

func TestParse_NamedDuplicateCoverage(t *testing.T) {
	t.Parallel()

	_, err := Parse(map[string]any{"a": 1.0, "a,b": []float64{1, 2}}, []string{"a", "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `bound more than once`)
}

func TestParse_NamedIncompatibleShapes(t *testing.T) {
	t.Parallel()

	_, err := Parse(map[string]any{
		"x": []float64{1, 2, 3},
		"y": []float64{1, 2},
	}, []string{"x", "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not broadcast together")
}

func TestParse_RaggedNestedValues(t *testing.T) {
	t.Parallel()

	_, err := Parse([]any{
		[]any{1.0, 2.0},
		[]any{1.0},
	}, []string{"a", "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
}

func TestParse_EmptyMapWithParameters(t *testing.T) {
	t.Parallel()

	_, err := Parse(map[string]any{}, []string{"a"})
	require.Error(t, err)
}

func TestParse_ArrayPassthroughChecksNames(t *testing.T) {
	t.Parallel()

	a, err := Parse([]float64{1, 2}, []string{"x", "y"})
	require.NoError(t, err)

	same, err := Parse(a, []string{"x", "y"})
	require.NoError(t, err)
	assert.Same(t, a, same)

	_, err = Parse(a, []string{"y", "x"})
	require.Error(t, err)
}

func TestParse_NestedAnyFromDecodedManifest(t *testing.T) {
	t.Parallel()

	// Manifest decoding yields []any trees with float64 leaves.
	vals := []any{
		[]any{0.0, 0.1},
		[]any{1.0, 1.1},
		[]any{2.0, 2.1},
	}

	a, err := Parse(vals, []string{"p", "q"})

	require.NoError(t, err)
	assert.Equal(t, []int{3}, a.Shape())
	assert.Equal(t, Binding{"p": 2.0, "q": 2.1}, a.At(2))
}

func TestParse_TwoDimensionalBroadcast(t *testing.T) {
	t.Parallel()

	// Column of xs against a row of ys gives a full grid.
	a, err := Parse(map[string]any{
		"x": []any{[]any{0.0}, []any{1.0}},
		"y": []any{10.0, 20.0, 30.0},
	}, []string{"x", "y"})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, a.Shape())
	assert.Equal(t, 6, a.NumPoints())
	assert.Equal(t, Binding{"x": 0, "y": 30}, a.At(2))
	assert.Equal(t, Binding{"x": 1, "y": 10}, a.At(3))
}
