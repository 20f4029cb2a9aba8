// Package paramvalid type-checks parameter values against a declared
// Schema, producing typed values, Unresolved markers, or in-place Error
// sentinels — never aborting a batch mid-way unless asked to (spec.md §4.2).
package paramvalid

import "fmt"

// scalarDtypes are the dtypes choices may restrict.
var scalarDtypes = map[string]bool{
	"str": true, "int": true, "float": true, "bool": true,
}

// Schema is one parameter's declared shape (spec.md §3 "Parameter schema").
type Schema struct {
	Dtype    string        `yaml:"dtype"`
	Required bool          `yaml:"required,omitempty"`
	Default  interface{}   `yaml:"default,omitempty"`
	Choices  []interface{} `yaml:"choices,omitempty"`
	Implicit interface{}   `yaml:"implicit,omitempty"` // nil, an Unresolved marker, or a concrete value
	Writable bool          `yaml:"writable,omitempty"`
	Aliases  []string      `yaml:"aliases,omitempty"`
}

// IsPureAliasHandle reports whether this schema is nothing but a named
// conduit to one or more step endpoints: a str-typed parameter with no
// choices that isn't writable. Such a schema inherits its effective type
// from whatever endpoint it aliases, per spec.md §3.
func (s Schema) IsPureAliasHandle() bool {
	return len(s.Aliases) > 0 && s.Dtype == "str" && len(s.Choices) == 0 && !s.Writable
}

// Check validates the schema's own declaration, independent of any value.
func (s Schema) Check() error {
	if len(s.Choices) > 0 && !scalarDtypes[s.Dtype] {
		return fmt.Errorf("choices only apply to scalar dtypes, got dtype %q", s.Dtype)
	}
	if len(s.Aliases) > 0 {
		if s.Dtype != "str" {
			return fmt.Errorf("aliases may only appear on a str-typed parameter, got dtype %q", s.Dtype)
		}
		if len(s.Choices) > 0 {
			return fmt.Errorf("aliases may not appear alongside choices")
		}
		if s.Writable {
			return fmt.Errorf("aliases may not appear on a writable parameter")
		}
	}
	if s.Implicit != nil && s.Required {
		return fmt.Errorf("a parameter with implicit set must not also be required from the user")
	}
	return nil
}
