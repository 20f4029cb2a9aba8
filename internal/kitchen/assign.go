package kitchen

import "fmt"

// applyAssign overlays assign onto params, skipping any name protected by
// protected_from_assign.
func applyAssign(params map[string]interface{}, assign map[string]interface{}, protected map[string]bool) {
	for k, v := range assign {
		if protected[k] {
			continue
		}
		params[k] = v
	}
}

// applyAssignBasedOn re-evaluates every assign_based_on rule against the
// current value of its base variable, applying the matching case (or
// DEFAULT) — spec.md §4.6 step 5b "re-apply assign_based_on so dependent
// assignments refresh".
func applyAssignBasedOn(params map[string]interface{}, rules map[string]AssignBasedOn, protected map[string]bool) {
	for _, rule := range rules {
		baseVal, ok := params[rule.Base]
		if !ok {
			continue
		}
		key := fmt.Sprint(baseVal)
		if caseMap, ok := rule.Cases[key]; ok {
			applyAssign(params, caseMap, protected)
		} else if rule.Default != nil {
			applyAssign(params, rule.Default, protected)
		}
	}
}

// validateAssignTargets enforces that no assign/assign_based_on target
// collides with protected_from_assign (spec.md §4.6 "Finalize").
func (r *Recipe) validateAssignTargets() error {
	check := func(name string) error {
		if r.protectedFromAssign[name] {
			return &AssignmentError{Fqname: r.fqname, Name: name, Msg: "protected_from_assign"}
		}
		return nil
	}
	for name := range r.def.Assign {
		if err := check(name); err != nil {
			return err
		}
	}
	for _, rule := range r.def.AssignBasedOn {
		for _, caseMap := range rule.Cases {
			for name := range caseMap {
				if err := check(name); err != nil {
					return err
				}
			}
		}
		for name := range rule.Default {
			if err := check(name); err != nil {
				return err
			}
		}
	}
	return nil
}
