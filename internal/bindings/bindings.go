// Package bindings coerces every accepted form of parameter values into a
// canonical broadcast array: a named map form (scalar, sequence, or nested
// sequence per parameter or per comma-separated parameter group) and a
// positional form (flat or nested sequences whose trailing axis runs over
// the circuit's declared parameter order).
//
// All named entries broadcast together under the usual rules; the
// resulting Array stores one float64 per (point, parameter) pair and hands
// the executor a concrete binding per broadcast point.
package bindings

import (
	"fmt"
	"slices"
	"strings"

	"github.com/qubelet/qsampler/internal/shape"
)

// Binding is the concrete value set for one broadcast point, keyed by
// parameter name.
type Binding map[string]float64

// Array is a canonical, validated set of parameter bindings. Its shape is
// the broadcast shape without the trailing parameter axis; a parameterless
// circuit yields the scalar shape with exactly one (empty) binding point.
type Array struct {
	names []string
	shp   []int
	data  []float64
}

// Names returns the parameter names in the circuit's declared order.
func (a *Array) Names() []string { return slices.Clone(a.names) }

// Shape returns the broadcast shape.
func (a *Array) Shape() []int { return slices.Clone(a.shp) }

// NumPoints returns the number of binding points the shape addresses.
func (a *Array) NumPoints() int { return shape.Size(a.shp) }

// ValuesAt returns the values of one binding point in declared parameter
// order. The flat index is row-major over Shape.
func (a *Array) ValuesAt(flat int) []float64 {
	n := len(a.names)
	if n == 0 {
		return nil
	}
	return slices.Clone(a.data[flat*n : (flat+1)*n])
}

// At returns the binding for one point keyed by parameter name.
func (a *Array) At(flat int) Binding {
	b := make(Binding, len(a.names))
	n := len(a.names)
	for i, name := range a.names {
		b[name] = a.data[flat*n+i]
	}
	return b
}

// Parse coerces values into an Array for a circuit declaring the given
// parameter names. Accepted forms:
//
//   - nil, legal only for a parameterless circuit;
//   - map[string]any (also map[string]float64, map[string][]float64) keyed
//     by parameter name or by a comma-separated name group, each value a
//     scalar or a rectangular nested sequence, with a trailing axis of the
//     group width for group keys;
//   - positional []float64, []int, or nested []any whose trailing axis
//     length equals the declared parameter count;
//   - a previously built *Array with matching names.
func Parse(values any, params []string) (*Array, error) {
	switch v := values.(type) {
	case nil:
		return scalarArray(params)
	case *Array:
		if !slices.Equal(v.names, params) {
			return nil, fmt.Errorf("binding array declares parameters %v, circuit declares %v", v.names, params)
		}
		return v, nil
	case map[string]any:
		return parseNamed(v, params)
	case map[string]float64:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = val
		}
		return parseNamed(m, params)
	case map[string][]float64:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = val
		}
		return parseNamed(m, params)
	default:
		return parsePositional(values, params)
	}
}

// scalarArray is the binding set of a parameterless pub: one empty point.
func scalarArray(params []string) (*Array, error) {
	if len(params) > 0 {
		return nil, missingValuesError(params)
	}
	return &Array{shp: []int{}}, nil
}

func missingValuesError(params []string) error {
	return fmt.Errorf("circuit declares %d parameter(s) but no values were given (missing: %s)",
		len(params), strings.Join(params, ", "))
}

// namedEntry is one map entry after key splitting and value flattening.
type namedEntry struct {
	group []string
	lead  []int // value shape with the trailing group axis stripped
	data  []float64
}

func parseNamed(m map[string]any, params []string) (*Array, error) {
	if len(m) == 0 {
		return scalarArray(params)
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("circuit declares no parameters but parameter values were given")
	}

	paramIndex := make(map[string]int, len(params))
	for i, p := range params {
		paramIndex[p] = i
	}

	covered := map[string]struct{}{}
	entries := make([]namedEntry, 0, len(m))
	// Map iteration order is random; sort keys so diagnostics are stable.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		group, err := splitGroupKey(key)
		if err != nil {
			return nil, err
		}
		for _, name := range group {
			if _, ok := paramIndex[name]; !ok {
				return nil, fmt.Errorf("unknown parameter %q: circuit declares %v", name, params)
			}
			if _, dup := covered[name]; dup {
				return nil, fmt.Errorf("parameter %q bound more than once", name)
			}
			covered[name] = struct{}{}
		}

		shp, data, err := flattenNumeric(m[key])
		if err != nil {
			return nil, fmt.Errorf("values for %q: %w", key, err)
		}
		lead := shp
		if len(group) > 1 {
			if len(shp) == 0 || shp[len(shp)-1] != len(group) {
				return nil, fmt.Errorf("values for group %q must have a trailing axis of length %d, got shape %v",
					key, len(group), shp)
			}
			lead = shp[:len(shp)-1]
		}
		entries = append(entries, namedEntry{group: group, lead: lead, data: data})
	}

	if len(covered) != len(params) {
		var missing []string
		for _, p := range params {
			if _, ok := covered[p]; !ok {
				missing = append(missing, p)
			}
		}
		return nil, fmt.Errorf("missing values for parameter(s): %s", strings.Join(missing, ", "))
	}

	leads := make([][]int, len(entries))
	for i, e := range entries {
		leads[i] = e.lead
	}
	shp, err := shape.BroadcastAll(leads...)
	if err != nil {
		return nil, fmt.Errorf("parameter values do not broadcast together: %w", err)
	}

	points := shape.Size(shp)
	out := &Array{names: slices.Clone(params), shp: shp, data: make([]float64, points*len(params))}
	for p := 0; p < points; p++ {
		idx := shape.Unravel(p, shp)
		for _, e := range entries {
			g := len(e.group)
			off := shape.BroadcastOffset(idx, e.lead) * g
			for k, name := range e.group {
				out.data[p*len(params)+paramIndex[name]] = e.data[off+k]
			}
		}
	}
	return out, nil
}

func splitGroupKey(key string) ([]string, error) {
	parts := strings.Split(key, ",")
	group := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, fmt.Errorf("malformed parameter key %q", key)
		}
		group = append(group, name)
	}
	return group, nil
}

func parsePositional(values any, params []string) (*Array, error) {
	shp, data, err := flattenNumeric(values)
	if err != nil {
		return nil, fmt.Errorf("parameter values: %w", err)
	}
	if len(params) == 0 {
		if len(data) > 0 {
			return nil, fmt.Errorf("circuit declares no parameters but parameter values were given")
		}
		return scalarArray(params)
	}
	if len(shp) == 0 {
		return nil, fmt.Errorf("positional parameter values need a trailing axis of length %d, got a scalar", len(params))
	}
	if got := shp[len(shp)-1]; got != len(params) {
		return nil, fmt.Errorf("each binding point carries %d value(s) but the circuit declares %d parameter(s)",
			got, len(params))
	}
	return &Array{names: slices.Clone(params), shp: shp[:len(shp)-1], data: data}, nil
}
