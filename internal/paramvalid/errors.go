package paramvalid

import (
	"fmt"
	"sort"
	"strings"
)

// Error is an in-place typed error value: Validate stores it as a
// parameter's value rather than aborting, so a caller can see which of many
// parameters failed in one pass.
type Error struct {
	Param string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("parameter %q: %v", e.Param, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err as an in-place Error for param.
func NewError(param string, err error) *Error {
	return &Error{Param: param, Err: err}
}

// IsError reports whether v is an in-place Error sentinel.
func IsError(v interface{}) bool {
	_, ok := v.(*Error)
	return ok
}

// StepValidationError is raised by Validate when loose is false and one or
// more parameters are required-missing or failed type-checking. It carries
// the join-quoted offending names per spec.md §4.2.
type StepValidationError struct {
	Names  []string
	Logged bool
}

func (e *StepValidationError) Error() string {
	sort.Strings(e.Names)
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("invalid or missing required parameters: %s", strings.Join(quoted, ", "))
}
