// Package container provides the labeled-data container that every functor
// consumes and produces.
//
// A Container is a flat mapping from string labels to cty.Value entries.
// There is a single backing store: "attribute" access and "key" access are
// the same operation, so code that reads c.Get("x") and code that resolves
// the dotted path "x" through Lookup observe the same entry. Nested
// structure is represented with cty object values, which lets a dotted path
// such as "a.b.c" traverse from a top-level entry into nested attributes.
//
// Containers are not safe for concurrent mutation. The expected usage is
// single-writer construction followed by read-mostly access, matching the
// rest of the functor call convention.
package container
