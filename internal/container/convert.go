package container

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ToCty coerces an arbitrary Go value into its cty representation. It
// handles the shapes functors actually exchange (nil, primitives, nested
// maps and slices, containers, raw cty values) directly and falls back to
// gocty's implied-type conversion for everything else.
func ToCty(value any) (cty.Value, error) {
	switch v := value.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return v, nil
	case *Container:
		return v.Value(), nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int32:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint:
		return cty.NumberUIntVal(uint64(v)), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case float32:
		return cty.NumberFloatVal(float64(v)), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case map[string]any:
		return mapToCty(v)
	case map[string]cty.Value:
		if len(v) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(v))
		for k, val := range v {
			attrs[k] = val
		}
		return cty.ObjectVal(attrs), nil
	case map[string]string:
		if len(v) == 0 {
			return cty.MapValEmpty(cty.String), nil
		}
		attrs := make(map[string]cty.Value, len(v))
		for k, s := range v {
			attrs[k] = cty.StringVal(s)
		}
		return cty.MapVal(attrs), nil
	case []any:
		return sliceToCty(v)
	default:
		impliedType, err := gocty.ImpliedType(value)
		if err != nil {
			return cty.NilVal, fmt.Errorf("unsupported value of type %T: %w", value, err)
		}
		converted, err := gocty.ToCtyValue(value, impliedType)
		if err != nil {
			return cty.NilVal, fmt.Errorf("cannot convert value of type %T: %w", value, err)
		}
		return converted, nil
	}
}

func mapToCty(m map[string]any) (cty.Value, error) {
	if len(m) == 0 {
		return cty.EmptyObjectVal, nil
	}
	attrs := make(map[string]cty.Value, len(m))
	for k, raw := range m {
		val, err := ToCty(raw)
		if err != nil {
			return cty.NilVal, fmt.Errorf("attribute %q: %w", k, err)
		}
		attrs[k] = val
	}
	return cty.ObjectVal(attrs), nil
}

func sliceToCty(s []any) (cty.Value, error) {
	if len(s) == 0 {
		return cty.EmptyTupleVal, nil
	}
	elems := make([]cty.Value, len(s))
	for i, raw := range s {
		val, err := ToCty(raw)
		if err != nil {
			return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = val
	}
	return cty.TupleVal(elems), nil
}
