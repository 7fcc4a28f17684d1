// Package print provides the utility.print functor, which writes the
// input container's entries to a configured writer in key order.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/ctxlog"
	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/registry"
)

// Module implements the registry.Module interface for this package. Out
// is the destination for printed listings; a nil Out falls back to
// standard output.
type Module struct {
	Out io.Writer
}

// Register registers the functor with the application's registry.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	r.Register(&functor.Declaration{
		Name:        "print",
		Namespace:   "utility",
		Description: "Print the input container's entries in key order.",
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return run(ctx, out, data)
		},
	})
}

func run(ctx context.Context, out io.Writer, data *container.Container) (any, error) {
	ctxlog.FromContext(ctx).Info("Printing input container.", "entries", data.Len())

	if data.Len() == 0 {
		fmt.Fprintln(out, "      (empty)")
		return nil, nil
	}
	for _, line := range strings.Split(strings.TrimRight(data.String(), "\n"), "\n") {
		fmt.Fprintf(out, "      %s\n", line)
	}

	// Returning nothing: the caller still receives the input under "data".
	return nil, nil
}
