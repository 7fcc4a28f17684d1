// Package manifest parses the HCL files that document registered
// functors. A manifest does not define behavior; it is the public,
// declarative description of a functor's contract, used to generate API
// documentation and cross-checked against the Go declaration at startup.
package manifest
