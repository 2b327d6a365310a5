package bindings

import (
	"fmt"

	"github.com/qubelet/qsampler/internal/shape"
)

// flattenNumeric turns a scalar or arbitrarily nested rectangular sequence
// of numbers into its shape plus row-major flat data. Supported leaves are
// the numeric types Go literals and decoded manifests produce.
func flattenNumeric(v any) ([]int, []float64, error) {
	if f, ok := asFloat(v); ok {
		return []int{}, []float64{f}, nil
	}
	switch t := v.(type) {
	case []float64:
		out := make([]float64, len(t))
		copy(out, t)
		return []int{len(t)}, out, nil
	case []int:
		out := make([]float64, len(t))
		for i, x := range t {
			out[i] = float64(x)
		}
		return []int{len(t)}, out, nil
	case [][]float64:
		rows := make([]any, len(t))
		for i, r := range t {
			rows[i] = r
		}
		return flattenNested(rows)
	case []any:
		return flattenNested(t)
	default:
		return nil, nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

// flattenNested flattens a slice whose elements must all share one shape.
func flattenNested(items []any) ([]int, []float64, error) {
	if len(items) == 0 {
		return []int{0}, nil, nil
	}
	first, data, err := flattenNumeric(items[0])
	if err != nil {
		return nil, nil, err
	}
	for _, item := range items[1:] {
		shp, d, err := flattenNumeric(item)
		if err != nil {
			return nil, nil, err
		}
		if !shape.Equal(shp, first) {
			return nil, nil, fmt.Errorf("ragged nested values: element shape %v conflicts with %v", shp, first)
		}
		data = append(data, d...)
	}
	return append([]int{len(items)}, first...), data, nil
}

// asFloat widens any scalar numeric leaf to float64.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}
