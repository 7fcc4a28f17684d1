// Package env provides the utility.env functor, which snapshots the
// process environment variables.
package env

import (
	"context"
	"os"
	"strings"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the functor with the application's registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&functor.Declaration{
		Name:        "env",
		Namespace:   "utility",
		Description: "Snapshot of the process environment variables.",
		Returns:     []string{"vars"},
		Fn:          run,
	})
}

func run(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
	vars := make(map[string]string)
	for _, entry := range os.Environ() {
		pair := strings.SplitN(entry, "=", 2)
		if len(pair) == 2 {
			vars[pair[0]] = pair[1]
		}
	}
	return map[string]any{"vars": vars}, nil
}
