package kitchen

import (
	"fmt"
	"sort"
	"strings"
)

// DefinitionError reports a structurally invalid recipe or cab definition
// caught at finalise — a collision, a malformed target-ref, a schema that
// fails its own Check() (spec.md §4.6 "Finalize").
type DefinitionError struct {
	Fqname string
	Msg    string
}

func (e *DefinitionError) Error() string {
	if e.Fqname != "" {
		return fmt.Sprintf("%s: %s", e.Fqname, e.Msg)
	}
	return e.Msg
}

// RecipeValidationError aggregates every step-level and self-level
// validation failure gathered during one Prevalidate pass (spec.md §4.6).
type RecipeValidationError struct {
	Fqname string
	Causes []error
}

func (e *RecipeValidationError) Error() string {
	parts := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		parts[i] = c.Error()
	}
	sort.Strings(parts)
	return fmt.Sprintf("recipe %q failed validation: %s", e.Fqname, strings.Join(parts, "; "))
}

func (e *RecipeValidationError) Unwrap() []error { return e.Causes }

// AliasConflictError reports two endpoints of the same alias pulling up
// different concrete values in the same propagation pass (spec.md §9 Open
// Question, resolved in SPEC_FULL §1: raise rather than pick one silently).
type AliasConflictError struct {
	Fqname                 string
	Name                   string
	FirstStep, OtherStep   string
	FirstValue, OtherValue interface{}
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("%s: alias %q: conflicting pulled-up values: %s=%v vs %s=%v",
		e.Fqname, e.Name, e.FirstStep, e.FirstValue, e.OtherStep, e.OtherValue)
}

// AssignmentError reports an assign/assign_based_on target that collides
// with protected_from_assign. Targets are not checked against the declared
// inputs/outputs.
type AssignmentError struct {
	Fqname string
	Name   string
	Msg    string
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("%s: assignment to %q: %s", e.Fqname, e.Name, e.Msg)
}
