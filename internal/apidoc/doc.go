// Package apidoc renders the registered functor API, either as a plain
// text listing grouped by namespace or as a detailed JSON document
// suitable for generated reference documentation.
package apidoc
