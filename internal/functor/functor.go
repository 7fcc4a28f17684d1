package functor

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/modelkit/functor/internal/container"
)

// DataLabel is the reserved label under which every functor result carries
// the input data. It may not be declared as a return label and is never
// forwarded as a keyword argument.
const DataLabel = "data"

// Args holds the keyword arguments of a single functor call, already
// merged with the declaration's defaults.
type Args map[string]cty.Value

// Get returns the argument stored under name, or cty.NilVal if absent.
func (a Args) Get(name string) cty.Value {
	if v, ok := a[name]; ok {
		return v
	}
	return cty.NilVal
}

// Func is the signature of a wrapped function. It receives the coerced,
// validated input container and the merged keyword arguments, and may
// return nil, a map (map[string]any or map[string]cty.Value), a cty object
// value, or a *container.Container.
type Func func(ctx context.Context, data *container.Container, args Args) (any, error)

// Declaration is the explicit contract of a functor: its identity, its
// required inputs, its optional keyword arguments, and the labels it is
// permitted to return.
type Declaration struct {
	// Name is the unqualified functor name.
	Name string

	// Namespace qualifies the registry key as "namespace.name". An empty
	// namespace registers the bare name.
	Namespace string

	// Description is a short human-readable summary, surfaced by the API
	// listing.
	Description string

	// Required lists dotted paths that must resolve to a present,
	// non-null value in the input container before Fn runs. Presence is
	// the only thing checked; types are not.
	Required []string

	// Defaults maps optional keyword-argument names to their default
	// values. Caller-supplied arguments override them per call.
	Defaults map[string]cty.Value

	// Returns lists the labels Fn may produce in addition to DataLabel.
	Returns []string

	// Fn is the wrapped function.
	Fn Func
}

// QualifiedName returns "namespace.name", or the bare name when the
// declaration has no namespace.
func (d *Declaration) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// Functor is a live, callable instance of a declaration.
type Functor struct {
	decl *Declaration
}

// New validates a declaration and wraps it into a callable functor.
func New(decl *Declaration) (*Functor, error) {
	if decl == nil {
		return nil, fmt.Errorf("functor declaration must not be nil")
	}
	if decl.Name == "" {
		return nil, fmt.Errorf("functor name must not be empty")
	}
	if decl.Fn == nil {
		return nil, fmt.Errorf("functor %q: Fn must not be nil", decl.QualifiedName())
	}
	for _, path := range decl.Required {
		if path == "" {
			return nil, fmt.Errorf("functor %q: required path must not be empty", decl.QualifiedName())
		}
	}
	for _, label := range decl.Returns {
		if label == DataLabel {
			return nil, fmt.Errorf("functor %q: %q is a reserved label and cannot be declared as a return", decl.QualifiedName(), DataLabel)
		}
	}
	return &Functor{decl: decl}, nil
}

// Name returns the functor's qualified name.
func (f *Functor) Name() string { return f.decl.QualifiedName() }

// Declaration returns the contract this functor was created from.
func (f *Functor) Declaration() *Declaration { return f.decl }

// Call invokes the wrapped function with the functor calling convention:
// the input is coerced to a labeled-data container, required paths are
// checked, declaration defaults are merged under the caller's keyword
// arguments, and the return value is normalized so that the result always
// contains the DataLabel entry.
func (f *Functor) Call(ctx context.Context, data any, args Args) (*container.Container, error) {
	in, err := f.coerceInput(data, args)
	if err != nil {
		return nil, err
	}

	for _, path := range f.decl.Required {
		val, ok := in.Lookup(path)
		if !ok || val.IsNull() {
			return nil, &MissingArgumentError{Functor: f.Name(), Path: path}
		}
	}

	ret, err := f.decl.Fn(ctx, in, f.mergeArgs(args))
	if err != nil {
		return nil, err
	}

	out, err := f.normalizeReturn(ret, in)
	if err != nil {
		return nil, err
	}

	if err := f.checkReturnLabels(out); err != nil {
		return nil, err
	}
	return out, nil
}

// coerceInput turns the positional argument into a container. Plain maps
// and cty object values are converted; an existing container passes
// through untouched. When no positional input is given, the reserved
// "data" keyword argument may supply it instead.
func (f *Functor) coerceInput(data any, args Args) (*container.Container, error) {
	if data == nil {
		if v, ok := args[DataLabel]; ok && !v.IsNull() && v.Type().IsObjectType() {
			return container.FromValue(v)
		}
		return container.New(), nil
	}
	switch v := data.(type) {
	case *container.Container:
		return v, nil
	case map[string]any:
		return container.FromMap(v)
	case cty.Value:
		return container.FromValue(v)
	default:
		return nil, fmt.Errorf("functor %q: input must be a container or mapping, got %T", f.Name(), data)
	}
}

// mergeArgs overlays the caller's keyword arguments on the declaration
// defaults. The reserved data argument is consumed by coercion and never
// reaches the wrapped function.
func (f *Functor) mergeArgs(args Args) Args {
	merged := make(Args, len(f.decl.Defaults)+len(args))
	for name, val := range f.decl.Defaults {
		merged[name] = val
	}
	for name, val := range args {
		if name == DataLabel {
			continue
		}
		merged[name] = val
	}
	return merged
}

// normalizeReturn guarantees the result container carries the DataLabel
// entry. A nil return, or returning the input container itself, wraps the
// input under DataLabel in a fresh container; every other shape is coerced
// and has DataLabel inserted when missing, referencing the original input.
func (f *Functor) normalizeReturn(ret any, in *container.Container) (*container.Container, error) {
	var out *container.Container
	switch v := ret.(type) {
	case nil:
		out = container.New()
	case *container.Container:
		if v == in {
			out = container.New()
		} else {
			out = v
		}
	case map[string]any:
		c, err := container.FromMap(v)
		if err != nil {
			return nil, fmt.Errorf("functor %q: invalid return value: %w", f.Name(), err)
		}
		out = c
	case map[string]cty.Value:
		out = container.New()
		for k, val := range v {
			out.SetValue(k, val)
		}
	case cty.Value:
		c, err := container.FromValue(v)
		if err != nil {
			return nil, fmt.Errorf("functor %q: invalid return value: %w", f.Name(), err)
		}
		out = c
	default:
		return nil, fmt.Errorf("functor %q: unsupported return type %T", f.Name(), ret)
	}

	if !out.Has(DataLabel) {
		out.SetValue(DataLabel, in.Value())
	}
	return out, nil
}

// checkReturnLabels rejects any result label beyond DataLabel that the
// declaration does not list.
func (f *Functor) checkReturnLabels(out *container.Container) error {
	declared := make(map[string]struct{}, len(f.decl.Returns))
	for _, label := range f.decl.Returns {
		declared[label] = struct{}{}
	}
	for _, key := range out.Keys() {
		if key == DataLabel {
			continue
		}
		if _, ok := declared[key]; !ok {
			return &UnexpectedReturnLabelError{Functor: f.Name(), Label: key, Declared: f.decl.Returns}
		}
	}
	return nil
}
