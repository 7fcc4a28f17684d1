package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"

	"github.com/modelkit/functor/internal/ctxlog"
)

// Functor is the parsed manifest of a single functor.
type Functor struct {
	// Name is the unqualified functor name, taken from the block label.
	Name string

	// Namespace optionally qualifies the name, matching the namespace of
	// the Go declaration.
	Namespace string

	// Description is a short human-readable summary.
	Description string

	// SourceFile records which manifest file declared this functor.
	SourceFile string

	// Inputs documents the functor's inputs by name. An input without a
	// default documents a required dotted path; an input with a default
	// documents an optional keyword argument.
	Inputs map[string]InputDoc

	// Outputs documents the labels the functor returns besides "data".
	Outputs map[string]OutputDoc
}

// QualifiedName returns "namespace.name", or the bare name when the
// manifest carries no namespace.
func (m *Functor) QualifiedName() string {
	if m.Namespace == "" {
		return m.Name
	}
	return m.Namespace + "." + m.Name
}

// InputDoc documents a single functor input.
type InputDoc struct {
	Name        string
	Description string

	// Default is nil for required inputs. A non-nil default marks the
	// input as an optional keyword argument with this value.
	Default *cty.Value
}

// Required reports whether the input documents a required dotted path.
func (d InputDoc) Required() bool { return d.Default == nil }

// OutputDoc documents a single return label.
type OutputDoc struct {
	Name        string
	Description string
}

// rootSchema is the top-level structure of a manifest file: one or more
// 'functor' blocks.
type rootSchema struct {
	Functors []*hclFunctor `hcl:"functor,block"`
}

// hclFunctor is a single 'functor' block, decoded in two passes so the
// body can be validated with an explicit schema.
type hclFunctor struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

var functorBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "namespace"},
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
	},
}

var inputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "default"},
	},
}

var outputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
}

// ParseFile decodes every 'functor' block in an HCL manifest file.
// Diagnostics are accumulated so one malformed block does not hide the
// rest of the file.
func ParseFile(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Functor, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing functor manifests from file.", "file_path", filePath)

	var allDiags hcl.Diagnostics
	if hclFile == nil {
		return nil, append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
	}

	root := &rootSchema{}
	diags := gohcl.DecodeBody(hclFile.Body, nil, root)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	manifests := make([]*Functor, 0, len(root.Functors))
	for _, block := range root.Functors {
		m, blockDiags := parseFunctorBody(block, filePath)
		allDiags = append(allDiags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		manifests = append(manifests, m)
	}

	return manifests, allDiags
}

func parseFunctorBody(block *hclFunctor, filePath string) (*Functor, hcl.Diagnostics) {
	content, diags := block.Body.Content(functorBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	m := &Functor{
		Name:       block.Name,
		SourceFile: filePath,
		Inputs:     make(map[string]InputDoc),
		Outputs:    make(map[string]OutputDoc),
	}

	if attr, ok := content.Attributes["namespace"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &m.Namespace)...)
	}
	if attr, ok := content.Attributes["description"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &m.Description)...)
	}

	for _, inner := range content.Blocks.OfType("input") {
		name := inner.Labels[0]
		if _, exists := m.Inputs[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate input documentation",
				Detail:   fmt.Sprintf("An input named %q is already documented for functor %q.", name, m.QualifiedName()),
				Subject:  &inner.DefRange,
			})
			continue
		}
		doc, inputDiags := parseInput(name, inner)
		diags = append(diags, inputDiags...)
		if inputDiags.HasErrors() {
			continue
		}
		m.Inputs[name] = doc
	}

	for _, inner := range content.Blocks.OfType("output") {
		name := inner.Labels[0]
		if _, exists := m.Outputs[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate output documentation",
				Detail:   fmt.Sprintf("An output named %q is already documented for functor %q.", name, m.QualifiedName()),
				Subject:  &inner.DefRange,
			})
			continue
		}
		doc, outputDiags := parseOutput(name, inner)
		diags = append(diags, outputDiags...)
		if outputDiags.HasErrors() {
			continue
		}
		m.Outputs[name] = doc
	}

	return m, diags
}

func parseInput(name string, block *hcl.Block) (InputDoc, hcl.Diagnostics) {
	content, diags := block.Body.Content(inputBodySchema)
	doc := InputDoc{Name: name}
	if diags.HasErrors() {
		return doc, diags
	}

	if attr, ok := content.Attributes["description"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &doc.Description)...)
	}
	if attr, ok := content.Attributes["default"]; ok {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if !valDiags.HasErrors() {
			doc.Default = &val
		}
	}
	return doc, diags
}

func parseOutput(name string, block *hcl.Block) (OutputDoc, hcl.Diagnostics) {
	content, diags := block.Body.Content(outputBodySchema)
	doc := OutputDoc{Name: name}
	if diags.HasErrors() {
		return doc, diags
	}
	if attr, ok := content.Attributes["description"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &doc.Description)...)
	}
	return doc, diags
}
