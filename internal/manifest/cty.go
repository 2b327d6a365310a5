package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/qubelet/qsampler/internal/circuit"
)

// evalAttr evaluates an attribute expression. Manifests are static, so no
// evaluation context is supplied; variable references become diagnostics.
func evalAttr(attr *hcl.Attribute) (cty.Value, hcl.Diagnostics) {
	return attr.Expr.Value(nil)
}

// ctyToGo converts a cty.Value into a plain Go tree: primitives become
// string/float64/bool, objects and maps become map[string]any, and
// collections become []any.
func ctyToGo(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type: %s", val.Type().FriendlyName())
}

// attrDiag wraps a conversion failure into a diagnostic pointing at the
// attribute's expression.
func attrDiag(attr *hcl.Attribute, summary string, err error) *hcl.Diagnostic {
	rng := attr.Expr.Range()
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   err.Error(),
		Subject:  &rng,
	}
}

// decodeMetadata evaluates a `metadata` attribute into a string-keyed map.
func decodeMetadata(attr *hcl.Attribute) (map[string]any, hcl.Diagnostics) {
	val, diags := evalAttr(attr)
	if diags.HasErrors() {
		return nil, diags
	}
	converted, err := ctyToGo(val)
	if err != nil {
		return nil, append(diags, attrDiag(attr, "Invalid \"metadata\" attribute", err))
	}
	md, ok := converted.(map[string]any)
	if !ok {
		return nil, append(diags, attrDiag(attr, "Invalid \"metadata\" attribute",
			fmt.Errorf("metadata must be an object, got %s", val.Type().FriendlyName())))
	}
	return md, diags
}

// decodeNamedParams evaluates a `params` attribute into the name-keyed
// binding tree the pub layer accepts. Keys may group several parameters
// with commas, so they stay verbatim.
func decodeNamedParams(attr *hcl.Attribute) (map[string]any, hcl.Diagnostics) {
	val, diags := evalAttr(attr)
	if diags.HasErrors() {
		return nil, diags
	}
	converted, err := ctyToGo(val)
	if err != nil {
		return nil, append(diags, attrDiag(attr, "Invalid \"params\" attribute", err))
	}
	named, ok := converted.(map[string]any)
	if !ok {
		return nil, append(diags, attrDiag(attr, "Invalid \"params\" attribute",
			fmt.Errorf("params must be an object of parameter name to values, got %s", val.Type().FriendlyName())))
	}
	return named, diags
}

// decodeValue evaluates a `values` attribute into a positional binding
// tree (nested lists of numbers).
func decodeValue(attr *hcl.Attribute) (any, hcl.Diagnostics) {
	val, diags := evalAttr(attr)
	if diags.HasErrors() {
		return nil, diags
	}
	converted, err := ctyToGo(val)
	if err != nil {
		return nil, append(diags, attrDiag(attr, "Invalid \"values\" attribute", err))
	}
	return converted, diags
}

// decodeAngle evaluates an `angle` attribute: a number is a literal angle,
// a string names a free parameter bound at run time.
func decodeAngle(attr *hcl.Attribute) (circuit.Arg, hcl.Diagnostics) {
	val, diags := evalAttr(attr)
	if diags.HasErrors() {
		return circuit.Arg{}, diags
	}
	switch val.Type() {
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return circuit.Lit(f), diags
	case cty.String:
		name := val.AsString()
		if name == "" {
			return circuit.Arg{}, append(diags, attrDiag(attr, "Invalid \"angle\" attribute",
				fmt.Errorf("parameter name must not be empty")))
		}
		return circuit.Ref(name), diags
	default:
		return circuit.Arg{}, append(diags, attrDiag(attr, "Invalid \"angle\" attribute",
			fmt.Errorf("angle must be a number or a parameter name, got %s", val.Type().FriendlyName())))
	}
}

// decodeComplexMatrix evaluates a `matrix` attribute into a row-major
// complex matrix. Each row is a list; each entry is either a real number
// or a [real, imaginary] pair.
func decodeComplexMatrix(attr *hcl.Attribute) ([]complex128, hcl.Diagnostics) {
	val, diags := evalAttr(attr)
	if diags.HasErrors() {
		return nil, diags
	}
	matrix, err := complexMatrixFromValue(val)
	if err != nil {
		return nil, append(diags, attrDiag(attr, "Invalid \"matrix\" attribute", err))
	}
	return matrix, diags
}

func complexMatrixFromValue(val cty.Value) ([]complex128, error) {
	rows, err := ctyToGo(val)
	if err != nil {
		return nil, err
	}
	rowList, ok := rows.([]any)
	if !ok {
		return nil, fmt.Errorf("matrix must be a list of rows, got %s", val.Type().FriendlyName())
	}
	dim := len(rowList)
	matrix := make([]complex128, 0, dim*dim)
	for i, row := range rowList {
		entries, ok := row.([]any)
		if !ok {
			return nil, fmt.Errorf("matrix row %d must be a list of entries", i)
		}
		if len(entries) != dim {
			return nil, fmt.Errorf("matrix row %d has %d entries, want %d", i, len(entries), dim)
		}
		for j, entry := range entries {
			c, err := complexEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("matrix entry [%d][%d]: %w", i, j, err)
			}
			matrix = append(matrix, c)
		}
	}
	return matrix, nil
}

// complexEntry accepts a real number or a [real, imaginary] pair.
func complexEntry(entry any) (complex128, error) {
	switch e := entry.(type) {
	case float64:
		return complex(e, 0), nil
	case []any:
		if len(e) != 2 {
			return 0, fmt.Errorf("complex pair must have exactly two numbers, got %d", len(e))
		}
		re, okRe := e[0].(float64)
		im, okIm := e[1].(float64)
		if !okRe || !okIm {
			return 0, fmt.Errorf("complex pair must contain numbers")
		}
		return complex(re, im), nil
	default:
		return 0, fmt.Errorf("entry must be a number or a [real, imaginary] pair, got %T", entry)
	}
}
