package feascheck

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/ctxlog"
	"github.com/modelkit/functor/internal/functor"
)

type variable struct {
	name  string
	value *float64
	lb    *float64
	ub    *float64
	fixed bool
}

// runBounds implements model.bounds: every variable record whose value
// lies outside its own lb/ub by at least the tolerance is reported. A
// variable without an assigned value is skipped, not reported.
func runBounds(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
	logger := ctxlog.FromContext(ctx)

	tol, err := decodeTol(args.Get("tol"))
	if err != nil {
		return nil, err
	}

	vars, err := decodeVariables(data)
	if err != nil {
		return nil, err
	}

	var violations []any
	for _, v := range vars {
		if v.value == nil {
			logger.Debug("Skipping variable with no assigned value.", "variable", v.name)
			continue
		}
		value := *v.value
		if v.lb != nil && *v.lb-value >= tol {
			violations = append(violations, map[string]any(violation{
				"name":   v.name,
				"kind":   "lower",
				"detail": fmt.Sprintf("VAR %s: %g < LB %g", v.name, value, *v.lb),
			}))
			logger.Info("Variable below lower bound.", "variable", v.name, "value", value, "lb", *v.lb)
		}
		if v.ub != nil && value-*v.ub >= tol {
			violations = append(violations, map[string]any(violation{
				"name":   v.name,
				"kind":   "upper",
				"detail": fmt.Sprintf("VAR %s: %g > UB %g", v.name, value, *v.ub),
			}))
			logger.Info("Variable above upper bound.", "variable", v.name, "value", value, "ub", *v.ub)
		}
	}

	return map[string]any{
		"violations": violations,
		"count":      len(violations),
	}, nil
}

func decodeVariables(data *container.Container) ([]variable, error) {
	raw, _ := data.Lookup("variables")
	if raw.IsNull() || !raw.CanIterateElements() {
		return nil, fmt.Errorf("'variables' must be a collection of variable records, got %s", raw.Type().FriendlyName())
	}

	var vars []variable
	index := 0
	for it := raw.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		v, err := decodeVariable(elem, index)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
		index++
	}
	return vars, nil
}

func decodeVariable(elem cty.Value, index int) (variable, error) {
	if elem.IsNull() || !elem.Type().IsObjectType() {
		return variable{}, fmt.Errorf("variable %d: record must be an object, got %s", index, elem.Type().FriendlyName())
	}

	v := variable{name: fmt.Sprintf("variable[%d]", index)}
	if name, ok := attr(elem, "name"); ok && !name.IsNull() {
		str, err := convert.Convert(name, cty.String)
		if err != nil {
			return variable{}, fmt.Errorf("variable %d: 'name' must be a string: %w", index, err)
		}
		v.name = str.AsString()
	}

	owner := fmt.Sprintf("variable %q", v.name)
	var err error
	if v.value, err = numberAttr(elem, "value", owner); err != nil {
		return variable{}, err
	}
	if v.lb, err = numberAttr(elem, "lb", owner); err != nil {
		return variable{}, err
	}
	if v.ub, err = numberAttr(elem, "ub", owner); err != nil {
		return variable{}, err
	}

	if fixed, ok := attr(elem, "fixed"); ok && !fixed.IsNull() {
		b, err := convert.Convert(fixed, cty.Bool)
		if err != nil {
			return variable{}, fmt.Errorf("variable %q: 'fixed' must be a bool: %w", v.name, err)
		}
		v.fixed = b.True()
	}
	return v, nil
}
