// Package functor implements the functor calling convention: an ordinary
// Go function wrapped so that it accepts a single labeled-data container
// (plus optional keyword arguments) and always returns a labeled-data
// container carrying a "data" entry.
//
// A functor is created from a Declaration, which is the explicit contract
// of the wrapped function: the dotted paths that must be present in the
// input, the keyword arguments and their defaults, and the labels the
// function is permitted to return. Validation happens at the call
// boundary, before and after the wrapped function runs, and fails fast
// with typed errors; there is no retry or recovery.
package functor
