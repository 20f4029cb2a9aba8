package paramvalid

import (
	"fmt"
	"strconv"

	"github.com/reciperun/kitchen/internal/subst"
)

// Registry resolves dtypes Validate doesn't know natively (file, dir,
// measurement-set, or any domain-specific extension) — spec.md §1's
// pluggable "type registry" collaborator.
type Registry interface {
	Has(dtype string) bool
	Check(dtype string, value interface{}) (interface{}, error)
}

// Validate type-checks values against schemas per spec.md §4.2. Substitution
// is applied to string-typed raw values using ns before type-checking. When
// loose is true, required-missing parameters are tolerated (used when the
// owning step will be skipped); when false, a required-missing or
// type-invalid parameter causes Validate to return a *StepValidationError.
func Validate(schemas map[string]Schema, values map[string]interface{}, ns subst.Namespace, loose bool, registry Registry) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(schemas))
	var invalid []string

	for name, schema := range schemas {
		raw, present := values[name]

		if !present {
			if schema.Implicit != nil {
				out[name] = schema.Implicit
				continue
			}
			if schema.Default != nil {
				raw = schema.Default
				present = true
			}
		}

		if !present {
			if schema.Required {
				if loose {
					out[name] = subst.NewUnresolved(name, "required parameter not supplied")
				} else {
					invalid = append(invalid, name)
					out[name] = NewError(name, fmt.Errorf("required parameter not supplied"))
				}
			}
			continue
		}

		val := raw
		if text, ok := raw.(string); ok {
			resolved, err := subst.Resolve(text, ns)
			if err != nil {
				invalid = append(invalid, name)
				out[name] = NewError(name, err)
				continue
			}
			if subst.IsUnresolved(resolved) {
				out[name] = resolved
				continue
			}
			val = resolved
		}

		typed, err := checkType(schema.Dtype, val, registry)
		if err != nil {
			if !loose {
				invalid = append(invalid, name)
			}
			out[name] = NewError(name, err)
			continue
		}

		if len(schema.Choices) > 0 && !isChoice(typed, schema.Choices) {
			err := fmt.Errorf("value %v is not one of the allowed choices %v", typed, schema.Choices)
			if !loose {
				invalid = append(invalid, name)
			}
			out[name] = NewError(name, err)
			continue
		}

		out[name] = typed
	}

	// Carry through values supplied for parameters with no declared schema
	// (e.g. a step's free-form params before binding); the caller decides
	// whether that's an error.
	for name, raw := range values {
		if _, declared := schemas[name]; !declared {
			out[name] = raw
		}
	}

	if len(invalid) > 0 {
		return out, &StepValidationError{Names: invalid}
	}
	return out, nil
}

func isChoice(val interface{}, choices []interface{}) bool {
	for _, c := range choices {
		if fmt.Sprint(c) == fmt.Sprint(val) {
			return true
		}
	}
	return false
}

func checkType(dtype string, val interface{}, registry Registry) (interface{}, error) {
	switch dtype {
	case "", "str":
		switch v := val.(type) {
		case string:
			return v, nil
		default:
			return fmt.Sprint(v), nil
		}
	case "int":
		switch v := val.(type) {
		case int:
			return v, nil
		case float64:
			return int(v), nil
		case string:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("expected int, got %q", v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("expected int, got %T", v)
		}
	case "float":
		switch v := val.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("expected float, got %q", v)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("expected float, got %T", v)
		}
	case "bool":
		switch v := val.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("expected bool, got %q", v)
			}
			return b, nil
		default:
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
	case "list":
		if v, ok := val.([]interface{}); ok {
			return v, nil
		}
		return nil, fmt.Errorf("expected list, got %T", val)
	default:
		if registry != nil && registry.Has(dtype) {
			return registry.Check(dtype, val)
		}
		return nil, fmt.Errorf("unknown dtype %q", dtype)
	}
}
