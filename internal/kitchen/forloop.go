package kitchen

import "fmt"

// ForLoop is the recipe-level iteration descriptor of spec.md §3: either
// over a literal list frozen at finalise, or over an input carrying an
// iterable, resolved each run.
type ForLoop struct {
	Var       string
	OverInput string        // input name; "" when Values is a literal list
	Values    []interface{} // frozen at finalise when Over is a literal list
	Scatter   bool
}

func buildForLoop(def *ForLoopDef, inputsOutputs map[string]Schema, inputs map[string]Schema) (*ForLoop, error) {
	if def == nil {
		return nil, nil
	}
	if _, collide := inputsOutputs[def.Var]; collide {
		return nil, fmt.Errorf("for_loop var %q collides with a declared input/output", def.Var)
	}

	fl := &ForLoop{Var: def.Var, Scatter: def.Scatter}
	switch over := def.Over.(type) {
	case nil:
		// no iterable: single implicit iteration, var bound to nil.
	case string:
		schema, ok := inputs[over]
		if !ok {
			return nil, fmt.Errorf("for_loop over %q must name a declared input", over)
		}
		schema.Required = true
		inputs[over] = schema
		fl.OverInput = over
	case []interface{}:
		fl.Values = over
	default:
		return nil, fmt.Errorf("for_loop.over must be a string or a list, got %T", def.Over)
	}
	return fl, nil
}

// resolveIterations returns the frozen iteration values, reading from
// params when Over names an input (spec.md §4.6 "Validate final for_loop
// resolution strictly; obtain the iteration list (single [null] when no
// for-loop)").
func (fl *ForLoop) resolveIterations(params map[string]interface{}) ([]interface{}, error) {
	if fl == nil {
		return []interface{}{nil}, nil
	}
	if fl.OverInput == "" {
		if len(fl.Values) == 0 {
			return []interface{}{nil}, nil
		}
		return fl.Values, nil
	}
	raw, ok := params[fl.OverInput]
	if !ok {
		return nil, fmt.Errorf("for_loop input %q not supplied", fl.OverInput)
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("for_loop input %q did not resolve to a list, got %T", fl.OverInput, raw)
	}
	return list, nil
}
