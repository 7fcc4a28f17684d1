package feascheck

import (
	"context"
	"math"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/ctxlog"
	"github.com/modelkit/functor/internal/functor"
)

// runNearBounds implements model.near_bounds: variables and inequality
// constraints whose value sits within the tolerance of a bound are
// reported. Fixed variables are skipped, and so are variables whose
// bounds are themselves closer together than twice the tolerance, since
// every value between such bounds is trivially "near" both.
func runNearBounds(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
	logger := ctxlog.FromContext(ctx)

	tol, err := decodeTol(args.Get("tol"))
	if err != nil {
		return nil, err
	}

	vars, err := decodeVariables(data)
	if err != nil {
		return nil, err
	}
	constrs, err := decodeConstraints(data)
	if err != nil {
		return nil, err
	}

	var near []any
	for _, v := range vars {
		if v.fixed {
			continue
		}
		if v.value == nil {
			logger.Debug("Skipping variable with no assigned value.", "variable", v.name)
			continue
		}
		if v.lb != nil && v.ub != nil && math.Abs(*v.ub-*v.lb) <= 2*tol {
			continue
		}
		value := *v.value
		if v.lb != nil && math.Abs(*v.lb-value) <= tol {
			near = append(near, map[string]any{
				"name":  v.name,
				"kind":  "variable",
				"bound": "lower",
			})
		} else if v.ub != nil && math.Abs(*v.ub-value) <= tol {
			near = append(near, map[string]any{
				"name":  v.name,
				"kind":  "variable",
				"bound": "upper",
			})
		}
	}

	for _, c := range constrs {
		if c.equality {
			continue
		}
		if c.body == nil {
			logger.Debug("Skipping constraint with no evaluated body.", "constraint", c.name)
			continue
		}
		body := *c.body
		if c.upper != nil && math.Abs(body-*c.upper) <= tol {
			near = append(near, map[string]any{
				"name":  c.name,
				"kind":  "constraint",
				"bound": "upper",
			})
		}
		if c.lower != nil && math.Abs(body-*c.lower) <= tol {
			near = append(near, map[string]any{
				"name":  c.name,
				"kind":  "constraint",
				"bound": "lower",
			})
		}
	}

	return map[string]any{
		"near":  near,
		"count": len(near),
	}, nil
}
