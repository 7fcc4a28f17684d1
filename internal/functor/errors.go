package functor

import (
	"fmt"
	"strings"
)

// MissingArgumentError reports a required dotted-path input that was
// absent, or present but null, when a functor was called. It is raised
// before the wrapped function executes.
type MissingArgumentError struct {
	Functor string
	Path    string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("functor %q: missing required argument %q", e.Functor, e.Path)
}

// UnexpectedReturnLabelError reports a label in a functor's return
// container that the declaration does not permit.
type UnexpectedReturnLabelError struct {
	Functor  string
	Label    string
	Declared []string
}

func (e *UnexpectedReturnLabelError) Error() string {
	if len(e.Declared) == 0 {
		return fmt.Sprintf("functor %q: unexpected return label %q (no labels declared)", e.Functor, e.Label)
	}
	return fmt.Sprintf("functor %q: unexpected return label %q (declared: %s)",
		e.Functor, e.Label, strings.Join(e.Declared, ", "))
}
