// Package registry provides process-wide discovery of functors by name.
//
// A Registry is an explicitly constructed object, passed to whatever needs
// it; there is no ambient global. It maps qualified names ("namespace.name",
// or the bare name for namespace-less declarations) to functor
// declarations, holds the parsed documentation manifests for those
// functors, and validates that the two agree before the application serves
// any lookups.
//
// Registration happens once at startup and entries are never removed; the
// expected pattern is single-writer during startup, many readers after.
package registry
