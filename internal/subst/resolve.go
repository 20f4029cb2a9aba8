package subst

import (
	"fmt"
	"regexp"
	"strings"
)

// refPattern matches a single {…} reference token, including its braces.
var refPattern = regexp.MustCompile(`\{[^{}]*\}`)

// identPattern is the grammar for what can appear inside a reference: a
// dotted path of identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// SubstitutionError reports a syntactically malformed reference — not a
// missing value (that yields Unresolved instead), but a token that isn't a
// valid reference at all, or a Func leaf that errored when invoked.
type SubstitutionError struct {
	Ref string
	Err error
}

func (e *SubstitutionError) Error() string {
	return fmt.Sprintf("invalid substitution reference %q: %v", e.Ref, e.Err)
}

func (e *SubstitutionError) Unwrap() error { return e.Err }

// SubstitutionErrorList aggregates multiple Unresolved markers gathered
// across a batch operation (e.g. validating every parameter of a schema).
// Resolve and the parameter validator do not return it; unresolved
// references reach callers as Unresolved values instead.
type SubstitutionErrorList struct {
	Unresolved []Unresolved
}

func (e *SubstitutionErrorList) Error() string {
	parts := make([]string, len(e.Unresolved))
	for i, u := range e.Unresolved {
		parts[i] = u.Ref
	}
	return fmt.Sprintf("unresolved references: %s", strings.Join(parts, ", "))
}

func (e *SubstitutionErrorList) Add(u Unresolved) {
	e.Unresolved = append(e.Unresolved, u)
}

func (e *SubstitutionErrorList) Empty() bool { return len(e.Unresolved) == 0 }

// Resolve evaluates text against ns per spec.md §4.1:
//   - a bare reference ("{a.b.c}" with nothing else in text) returns the
//     referenced value with its native type preserved;
//   - a template ("prefix-{x}-suffix") splices the string form of each
//     reference into the surrounding text; a single unresolved reference
//     anywhere poisons the whole result with Unresolved.
//
// The returned error is non-nil only for a malformed reference token or a
// Func leaf that errored; a missing key is reported via the returned
// Unresolved value, not an error.
func Resolve(text string, ns Namespace) (interface{}, error) {
	matches := refPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(text) {
		ref := text[1 : len(text)-1]
		return resolveRef(ref, ns)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		ref := text[m[0]+1 : m[1]-1]
		val, err := resolveRef(ref, ns)
		if err != nil {
			return nil, err
		}
		if u, ok := val.(Unresolved); ok {
			return u, nil
		}
		b.WriteString(stringify(val))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func resolveRef(ref string, ns Namespace) (interface{}, error) {
	if !identPattern.MatchString(ref) {
		return nil, &SubstitutionError{Ref: ref, Err: fmt.Errorf("not a valid dotted reference")}
	}
	val, ok := ns.Get(ref)
	if !ok {
		return NewUnresolved(ref, "not found in namespace"), nil
	}
	if u, ok := val.(Unresolved); ok {
		return u, nil
	}
	if d, ok := val.(DeferredAlias); ok {
		return NewUnresolved(ref, fmt.Sprintf("deferred alias %s", d.Target)), nil
	}
	if fn, ok := val.(Func); ok {
		out, err := fn()
		if err != nil {
			return nil, &SubstitutionError{Ref: ref, Err: err}
		}
		return out, nil
	}
	return val, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// ResolveString is a convenience for callers that only ever expect a string
// result (most step parameters). It forces the native value through its
// string form when Resolve returned something other than a plain string.
// An Unresolved result is returned as is.
func ResolveString(text string, ns Namespace) (interface{}, error) {
	val, err := Resolve(text, ns)
	if err != nil {
		return nil, err
	}
	if u, ok := val.(Unresolved); ok {
		return u, nil
	}
	return stringify(val), nil
}
