// Package app wires the application together: it builds an isolated
// logger, constructs the registry, registers the builtin functor modules,
// loads documentation manifests, runs the parity validation, and renders
// the requested API listing.
package app
