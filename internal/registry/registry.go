package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/manifest"
)

// Module is the interface builtin functor packages implement to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// NotRegisteredError reports a factory lookup for a name with no
// registry entry.
type NotRegisteredError struct {
	Name string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no functor registered under name %q", e.Name)
}

// Entry identifies one registered functor.
type Entry struct {
	Namespace string
	Name      string
}

// QualifiedName returns the registry key for the entry.
func (e Entry) QualifiedName() string {
	if e.Namespace == "" {
		return e.Name
	}
	return e.Namespace + "." + e.Name
}

// Registry holds all registered functor declarations and their
// documentation manifests for a single application instance.
type Registry struct {
	functors  map[string]*functor.Functor
	manifests map[string]*manifest.Functor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		functors:  make(map[string]*functor.Functor),
		manifests: make(map[string]*manifest.Functor),
	}
}

// Register wraps a declaration and inserts it under its qualified name.
// The returned functor is the declared instance, for direct use by the
// registering package. Registering an invalid declaration or a duplicate
// name panics: both are programmer errors surfaced at startup.
func (r *Registry) Register(decl *functor.Declaration) *functor.Functor {
	fn, err := functor.New(decl)
	if err != nil {
		panic(err)
	}
	name := decl.QualifiedName()
	if _, exists := r.functors[name]; exists {
		panic(fmt.Sprintf("functor with name '%s' already registered", name))
	}
	slog.Debug("Registering functor.", "name", name)
	r.functors[name] = fn
	return fn
}

// NewFunctor is the factory: it returns a fresh callable functor bound to
// the declaration registered under the (possibly namespaced) name. The
// returned instance behaves identically to the declared one.
func (r *Registry) NewFunctor(name string) (*functor.Functor, error) {
	declared, ok := r.functors[name]
	if !ok {
		return nil, &NotRegisteredError{Name: name}
	}
	fn, err := functor.New(declared.Declaration())
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// Lookup returns the declared functor registered under name.
func (r *Registry) Lookup(name string) (*functor.Functor, error) {
	fn, ok := r.functors[name]
	if !ok {
		return nil, &NotRegisteredError{Name: name}
	}
	return fn, nil
}

// List returns every registered (namespace, name) pair, sorted by
// namespace then name.
func (r *Registry) List() []Entry {
	entries := make([]Entry, 0, len(r.functors))
	for _, fn := range r.functors {
		decl := fn.Declaration()
		entries = append(entries, Entry{Namespace: decl.Namespace, Name: decl.Name})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Namespace != entries[j].Namespace {
			return entries[i].Namespace < entries[j].Namespace
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Namespaces returns the distinct namespaces with registered functors,
// sorted. Namespace-less functors contribute the empty string.
func (r *Registry) Namespaces() []string {
	seen := make(map[string]struct{})
	for _, fn := range r.functors {
		seen[fn.Declaration().Namespace] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for ns := range seen {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered functors.
func (r *Registry) Len() int {
	return len(r.functors)
}

// Manifest returns the documentation manifest loaded for the qualified
// name, if any.
func (r *Registry) Manifest(name string) (*manifest.Functor, bool) {
	m, ok := r.manifests[name]
	return m, ok
}
