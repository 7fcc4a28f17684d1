// Package feascheck provides the model-diagnostic functors:
//
//   - model.infeasible reports constraint records violating their bounds
//     within a feasibility tolerance.
//   - model.bounds reports variable records outside their own lb/ub.
//   - model.near_bounds reports variables and inequality constraints
//     sitting within the tolerance of a bound.
//   - model.active lists the active constraint records.
//
// A constraint record is an object with a "name" and a "body" value plus
// optional "lower", "upper", "equality" and "active" attributes. A null
// body means the constraint could not be evaluated (a variable has no
// value). A variable record carries "name" and "value" plus optional
// "lb", "ub" and "fixed" attributes.
package feascheck

import (
	"context"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/ctxlog"
	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the package's functors with the application's
// registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&functor.Declaration{
		Name:        "infeasible",
		Namespace:   "model",
		Description: "Report constraint records violating their bounds within a tolerance.",
		Required:    []string{"constraints"},
		Defaults: map[string]cty.Value{
			"tol": cty.NumberFloatVal(1e-6),
		},
		Returns: []string{"violations", "count"},
		Fn:      run,
	})
	r.Register(&functor.Declaration{
		Name:        "bounds",
		Namespace:   "model",
		Description: "Report variable records violating their own bounds within a tolerance.",
		Required:    []string{"variables"},
		Defaults: map[string]cty.Value{
			"tol": cty.NumberFloatVal(1e-6),
		},
		Returns: []string{"violations", "count"},
		Fn:      runBounds,
	})
	r.Register(&functor.Declaration{
		Name:        "near_bounds",
		Namespace:   "model",
		Description: "Report variables and constraints within a tolerance of a bound.",
		Required:    []string{"variables", "constraints"},
		Defaults: map[string]cty.Value{
			"tol": cty.NumberFloatVal(1e-6),
		},
		Returns: []string{"near", "count"},
		Fn:      runNearBounds,
	})
	r.Register(&functor.Declaration{
		Name:        "active",
		Namespace:   "model",
		Description: "List the active constraint records.",
		Required:    []string{"constraints"},
		Returns:     []string{"active", "count"},
		Fn:          runActive,
	})
}

type constraint struct {
	name     string
	body     *float64
	lower    *float64
	upper    *float64
	equality bool
	active   bool
}

func run(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
	logger := ctxlog.FromContext(ctx)

	tol, err := decodeTol(args.Get("tol"))
	if err != nil {
		return nil, err
	}

	constrs, err := decodeConstraints(data)
	if err != nil {
		return nil, err
	}

	var violations []any
	for _, constr := range constrs {
		for _, v := range check(constr, tol) {
			logger.Info("Infeasible constraint.", "constraint", constr.name, "kind", v["kind"], "detail", v["detail"])
			violations = append(violations, map[string]any(v))
		}
	}

	return map[string]any{
		"violations": violations,
		"count":      len(violations),
	}, nil
}

type violation map[string]any

// check evaluates one constraint record against its bounds. A constraint
// can violate both its lower and upper bound only if the record is
// inconsistent, so at most one violation is produced per kind.
func check(c constraint, tol float64) []violation {
	if c.body == nil {
		return []violation{{
			"name":   c.name,
			"kind":   "missing",
			"detail": fmt.Sprintf("CONSTR %s: missing variable value", c.name),
		}}
	}
	body := *c.body

	if c.equality {
		if c.lower == nil {
			return []violation{{
				"name":   c.name,
				"kind":   "missing",
				"detail": fmt.Sprintf("CONSTR %s: equality constraint without a target value", c.name),
			}}
		}
		if math.Abs(*c.lower-body) >= tol {
			return []violation{{
				"name":   c.name,
				"kind":   "equality",
				"detail": fmt.Sprintf("CONSTR %s: %g =/= %g", c.name, body, *c.lower),
			}}
		}
		return nil
	}

	var out []violation
	if c.lower != nil && *c.lower-body >= tol {
		out = append(out, violation{
			"name":   c.name,
			"kind":   "lower",
			"detail": fmt.Sprintf("CONSTR %s: %g </= %g", c.name, *c.lower, body),
		})
	}
	if c.upper != nil && body-*c.upper >= tol {
		out = append(out, violation{
			"name":   c.name,
			"kind":   "upper",
			"detail": fmt.Sprintf("CONSTR %s: %g </= %g", c.name, body, *c.upper),
		})
	}
	return out
}

func decodeConstraints(data *container.Container) ([]constraint, error) {
	raw, _ := data.Lookup("constraints")
	if raw.IsNull() || !raw.CanIterateElements() {
		return nil, fmt.Errorf("'constraints' must be a collection of constraint records, got %s", raw.Type().FriendlyName())
	}

	var constrs []constraint
	index := 0
	for it := raw.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		c, err := decodeConstraint(elem, index)
		if err != nil {
			return nil, err
		}
		constrs = append(constrs, c)
		index++
	}
	return constrs, nil
}

func decodeConstraint(elem cty.Value, index int) (constraint, error) {
	if elem.IsNull() || !elem.Type().IsObjectType() {
		return constraint{}, fmt.Errorf("constraint %d: record must be an object, got %s", index, elem.Type().FriendlyName())
	}

	c := constraint{name: fmt.Sprintf("constraint[%d]", index), active: true}
	if name, ok := attr(elem, "name"); ok && !name.IsNull() {
		str, err := convert.Convert(name, cty.String)
		if err != nil {
			return constraint{}, fmt.Errorf("constraint %d: 'name' must be a string: %w", index, err)
		}
		c.name = str.AsString()
	}

	owner := fmt.Sprintf("constraint %q", c.name)
	var err error
	if c.body, err = numberAttr(elem, "body", owner); err != nil {
		return constraint{}, err
	}
	if c.lower, err = numberAttr(elem, "lower", owner); err != nil {
		return constraint{}, err
	}
	if c.upper, err = numberAttr(elem, "upper", owner); err != nil {
		return constraint{}, err
	}

	if eq, ok := attr(elem, "equality"); ok && !eq.IsNull() {
		b, err := convert.Convert(eq, cty.Bool)
		if err != nil {
			return constraint{}, fmt.Errorf("constraint %q: 'equality' must be a bool: %w", c.name, err)
		}
		c.equality = b.True()
	}
	if act, ok := attr(elem, "active"); ok && !act.IsNull() {
		b, err := convert.Convert(act, cty.Bool)
		if err != nil {
			return constraint{}, fmt.Errorf("constraint %q: 'active' must be a bool: %w", c.name, err)
		}
		c.active = b.True()
	}
	return c, nil
}

func attr(obj cty.Value, name string) (cty.Value, bool) {
	if !obj.Type().HasAttribute(name) {
		return cty.NilVal, false
	}
	return obj.GetAttr(name), true
}

func numberAttr(obj cty.Value, name, owner string) (*float64, error) {
	val, ok := attr(obj, name)
	if !ok || val.IsNull() {
		return nil, nil
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("%s: %q must be a number: %w", owner, name, err)
	}
	f, _ := num.AsBigFloat().Float64()
	return &f, nil
}

func decodeTol(val cty.Value) (float64, error) {
	if val == cty.NilVal || val.IsNull() {
		return 1e-6, nil
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("'tol' must be a number: %w", err)
	}
	f, _ := num.AsBigFloat().Float64()
	if f <= 0 {
		return 0, fmt.Errorf("'tol' must be positive")
	}
	return f, nil
}
