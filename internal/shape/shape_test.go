package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast_CompatibleShapes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		a, b     []int
		expected []int
	}{
		{"scalar with scalar", []int{}, []int{}, []int{}},
		{"scalar with vector", []int{}, []int{3}, []int{3}},
		{"equal shapes", []int{2, 3}, []int{2, 3}, []int{2, 3}},
		{"ones stretch", []int{2, 1}, []int{1, 3}, []int{2, 3}},
		{"rank promotion", []int{3}, []int{4, 3}, []int{4, 3}},
		{"leading ones", []int{1, 1, 5}, []int{5}, []int{1, 1, 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Broadcast(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestBroadcast_IncompatibleShapes(t *testing.T) {
	t.Parallel()

	_, err := Broadcast([]int{2, 3}, []int{4, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not broadcastable")
}

func TestBroadcastAll_NoArgsIsScalar(t *testing.T) {
	t.Parallel()

	got, err := BroadcastAll()
	require.NoError(t, err)
	assert.Equal(t, []int{}, got)
	assert.Equal(t, 1, Size(got))
}

func TestRavelUnravel_RoundTrip(t *testing.T) {
	t.Parallel()

	s := []int{2, 3, 4}
	for flat := 0; flat < Size(s); flat++ {
		idx := Unravel(flat, s)
		back, err := Ravel(idx, s)
		require.NoError(t, err)
		assert.Equal(t, flat, back)
	}
}

func TestRavel_RejectsBadIndex(t *testing.T) {
	t.Parallel()

	_, err := Ravel([]int{0, 3}, []int{2, 3})
	require.Error(t, err)

	_, err = Ravel([]int{0}, []int{2, 3})
	require.Error(t, err)
}

func TestBroadcastOffset_ClampsStretchedAxes(t *testing.T) {
	t.Parallel()

	// Operand of shape (2, 1) inside a broadcast result of shape (2, 3):
	// the second axis is stretched, so every column reads the same element.
	from := []int{2, 1}
	assert.Equal(t, 0, BroadcastOffset([]int{0, 0}, from))
	assert.Equal(t, 0, BroadcastOffset([]int{0, 2}, from))
	assert.Equal(t, 1, BroadcastOffset([]int{1, 0}, from))
	assert.Equal(t, 1, BroadcastOffset([]int{1, 2}, from))

	// A scalar operand always reads offset 0.
	assert.Equal(t, 0, BroadcastOffset([]int{1, 2}, []int{}))
}

func TestStrides_RowMajor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{12, 4, 1}, Strides([]int{2, 3, 4}))
	assert.Equal(t, []int{}, Strides([]int{}))
}
