package feascheck

import (
	"context"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/ctxlog"
	"github.com/modelkit/functor/internal/functor"
)

// runActive implements model.active: it lists the names of the active
// constraint records. A record without an "active" attribute counts as
// active.
func runActive(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
	logger := ctxlog.FromContext(ctx)

	constrs, err := decodeConstraints(data)
	if err != nil {
		return nil, err
	}

	var names []any
	for _, c := range constrs {
		if !c.active {
			continue
		}
		logger.Debug("Active constraint.", "constraint", c.name)
		names = append(names, c.name)
	}

	return map[string]any{
		"active": names,
		"count":  len(names),
	}, nil
}
