package app

import (
	"context"
	"fmt"

	"github.com/modelkit/functor/internal/apidoc"
)

// Run renders the registered API to the application's output writer:
// a plain-text enumeration by default, or the detailed JSON rendering
// when configured.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.", "functors", a.registry.Len(), "detailed", a.config.Detailed)

	var err error
	if a.config.Detailed {
		err = apidoc.RenderDetailed(a.outW, a.registry)
	} else {
		err = apidoc.Render(a.outW, a.registry)
	}
	if err != nil {
		return fmt.Errorf("failed to render API listing: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
