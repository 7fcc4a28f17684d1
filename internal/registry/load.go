package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/modelkit/functor/internal/ctxlog"
	"github.com/modelkit/functor/internal/fsutil"
	"github.com/modelkit/functor/internal/manifest"
)

// LoadManifests recursively parses every .hcl manifest under path and
// indexes the documented functors by qualified name. A manifest naming an
// already-loaded functor is rejected.
func (r *Registry) LoadManifests(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading manifests.", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		logger.Error("Failed to walk manifests directory.", "path", path, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path.", "path", path)
		return nil
	}

	parser := hclparse.NewParser()
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse manifest file %s: %w", filePath, diags)
		}

		manifests, diags := manifest.ParseFile(ctx, hclFile, filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to process manifests in %s: %w", filePath, diags)
		}

		for _, m := range manifests {
			name := m.QualifiedName()
			if prev, exists := r.manifests[name]; exists {
				return fmt.Errorf("functor %q documented twice: %s and %s", name, prev.SourceFile, filePath)
			}
			r.manifests[name] = m
		}
		logger.Debug("Loaded manifests from file.", "file", filePath, "count", len(manifests))
	}

	logger.Info("Registry manifests loaded.", "manifests_loaded", len(r.manifests))
	return nil
}
