package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelkit/functor/internal/ctxlog"
)

// Validate performs a strict parity check between the loaded manifests
// and the registered Go declarations. Every documented required input,
// optional default, and output label must exist in the declaration, and
// vice versa for functors that carry a manifest. All mismatches are
// collected and reported together.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for name, m := range r.manifests {
		fn, ok := r.functors[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("manifest %s documents functor %q which is not registered", m.SourceFile, name))
			continue
		}
		decl := fn.Declaration()

		declRequired := make(map[string]struct{}, len(decl.Required))
		for _, path := range decl.Required {
			declRequired[path] = struct{}{}
		}
		declReturns := make(map[string]struct{}, len(decl.Returns))
		for _, label := range decl.Returns {
			declReturns[label] = struct{}{}
		}

		for inputName, doc := range m.Inputs {
			if doc.Required() {
				if _, ok := declRequired[inputName]; !ok {
					errs = append(errs, fmt.Sprintf("functor %q: manifest documents required input %q which the declaration does not require", name, inputName))
				}
				continue
			}
			defaultVal, ok := decl.Defaults[inputName]
			if !ok {
				errs = append(errs, fmt.Sprintf("functor %q: manifest documents optional input %q which the declaration does not accept", name, inputName))
				continue
			}
			if !doc.Default.RawEquals(defaultVal) {
				errs = append(errs, fmt.Sprintf("functor %q, input %q: manifest default does not match declared default", name, inputName))
			}
		}
		for _, path := range decl.Required {
			doc, ok := m.Inputs[path]
			if !ok {
				errs = append(errs, fmt.Sprintf("functor %q: declaration requires input %q which the manifest does not document", name, path))
				continue
			}
			if !doc.Required() {
				errs = append(errs, fmt.Sprintf("functor %q: input %q is required by the declaration but documented as optional", name, path))
			}
		}
		for argName := range decl.Defaults {
			if _, ok := m.Inputs[argName]; !ok {
				errs = append(errs, fmt.Sprintf("functor %q: declaration accepts optional argument %q which the manifest does not document", name, argName))
			}
		}

		for outputName := range m.Outputs {
			if _, ok := declReturns[outputName]; !ok {
				errs = append(errs, fmt.Sprintf("functor %q: manifest documents output %q which the declaration does not return", name, outputName))
			}
		}
		for _, label := range decl.Returns {
			if _, ok := m.Outputs[label]; !ok {
				errs = append(errs, fmt.Sprintf("functor %q: declaration returns label %q which the manifest does not document", name, label))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry parity validation passed.", "manifests", len(r.manifests), "functors", len(r.functors))
	return nil
}
