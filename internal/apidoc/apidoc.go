package apidoc

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/modelkit/functor/internal/registry"
)

// FunctorDoc is the structured documentation of a single functor.
type FunctorDoc struct {
	Name        string      `json:"name"`
	Namespace   string      `json:"namespace,omitempty"`
	Description string      `json:"description,omitempty"`
	Inputs      []InputDoc  `json:"inputs,omitempty"`
	Returns     []ReturnDoc `json:"returns,omitempty"`
}

// InputDoc documents one input: a required dotted path, or an optional
// keyword argument with its default.
type InputDoc struct {
	Name        string          `json:"name"`
	Required    bool            `json:"required"`
	Default     json.RawMessage `json:"default,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ReturnDoc documents one permitted return label.
type ReturnDoc struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Render writes a plain-text enumeration of the registry, grouped by
// namespace, in deterministic order.
func Render(w io.Writer, reg *registry.Registry) error {
	entries := reg.List()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No functors registered.")
		return err
	}

	current := "\x00"
	for _, entry := range entries {
		if entry.Namespace != current {
			current = entry.Namespace
			heading := current
			if heading == "" {
				heading = "(default)"
			}
			if _, err := fmt.Fprintf(w, "%s:\n", heading); err != nil {
				return err
			}
		}
		description := ""
		if fn, err := reg.Lookup(entry.QualifiedName()); err == nil {
			description = fn.Declaration().Description
		}
		if _, err := fmt.Fprintf(w, "  %-30s %s\n", entry.QualifiedName(), description); err != nil {
			return err
		}
	}
	return nil
}

// RenderDetailed writes the full API as indented JSON, one document per
// registered functor, merging declaration contracts with any loaded
// manifest descriptions.
func RenderDetailed(w io.Writer, reg *registry.Registry) error {
	docs, err := Collect(reg)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

// Collect assembles the structured documentation for every registered
// functor, sorted by namespace then name.
func Collect(reg *registry.Registry) ([]FunctorDoc, error) {
	entries := reg.List()
	docs := make([]FunctorDoc, 0, len(entries))
	for _, entry := range entries {
		fn, err := reg.Lookup(entry.QualifiedName())
		if err != nil {
			return nil, err
		}
		decl := fn.Declaration()

		doc := FunctorDoc{
			Name:        decl.Name,
			Namespace:   decl.Namespace,
			Description: decl.Description,
		}
		m, hasManifest := reg.Manifest(entry.QualifiedName())
		if hasManifest && m.Description != "" {
			doc.Description = m.Description
		}

		for _, path := range decl.Required {
			input := InputDoc{Name: path, Required: true}
			if hasManifest {
				input.Description = m.Inputs[path].Description
			}
			doc.Inputs = append(doc.Inputs, input)
		}

		optional := make([]string, 0, len(decl.Defaults))
		for name := range decl.Defaults {
			optional = append(optional, name)
		}
		sort.Strings(optional)
		for _, name := range optional {
			defaultVal := decl.Defaults[name]
			raw, err := ctyjson.Marshal(defaultVal, defaultVal.Type())
			if err != nil {
				return nil, fmt.Errorf("functor %q: cannot encode default for %q: %w", entry.QualifiedName(), name, err)
			}
			input := InputDoc{Name: name, Default: raw}
			if hasManifest {
				input.Description = m.Inputs[name].Description
			}
			doc.Inputs = append(doc.Inputs, input)
		}

		for _, label := range decl.Returns {
			ret := ReturnDoc{Name: label}
			if hasManifest {
				ret.Description = m.Outputs[label].Description
			}
			doc.Returns = append(doc.Returns, ret)
		}

		docs = append(docs, doc)
	}
	return docs, nil
}
