package app

import (
	"io"

	"github.com/modelkit/functor/functors/env"
	"github.com/modelkit/functor/functors/feascheck"
	"github.com/modelkit/functor/functors/httpfetch"
	"github.com/modelkit/functor/functors/print"
	"github.com/modelkit/functor/functors/stats"
	"github.com/modelkit/functor/internal/registry"
)

// builtinModules is the definitive list of functor modules compiled into
// the functor binary. Modules that produce output write to outW alongside
// the application's own rendering.
func builtinModules(outW io.Writer) []registry.Module {
	return []registry.Module{
		&env.Module{},
		&print.Module{Out: outW},
		&stats.Module{},
		&feascheck.Module{},
		&httpfetch.Module{},
	}
}
