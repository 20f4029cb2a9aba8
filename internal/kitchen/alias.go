package kitchen

import (
	"path"
	"reflect"
	"strings"

	"github.com/reciperun/kitchen/internal/paramvalid"
	"github.com/reciperun/kitchen/internal/subst"
)

// AliasInfo binds one recipe-level alias name to one (step, param) endpoint
// (spec.md §3 "AliasInfo"). FromRecipe/FromStep are set during propagation:
// FromRecipe means the recipe-level value was pushed down into this
// endpoint; FromStep means this endpoint's value was pulled up to the
// recipe.
type AliasInfo struct {
	Step       *Step
	Param      string
	IOSide     string // "inputs" or "outputs"
	FromRecipe bool
	FromStep   bool
}

type endpoint struct {
	step   *Step
	param  string
	ioSide string
	dtype  string
}

func containsGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// resolveTargetRef expands one target-ref ("label.param", "(cabtype).param",
// or "glob.param") against steps into its concrete endpoints (spec.md §3's
// target-ref grammar).
func resolveTargetRef(ref string, steps []*Step) ([]endpoint, error) {
	parts := strings.SplitN(ref, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, &aliasRefError{ref: ref, msg: "malformed target-ref, expected \"label.param\""}
	}
	labelPart, param := parts[0], parts[1]

	var matched []*Step
	switch {
	case strings.HasPrefix(labelPart, "(") && strings.HasSuffix(labelPart, ")"):
		cabtype := labelPart[1 : len(labelPart)-1]
		for _, st := range steps {
			if cab, ok := st.cargo.(*Cab); ok && cab.Name() == cabtype {
				matched = append(matched, st)
			}
		}
	case containsGlobChars(labelPart):
		for _, st := range steps {
			if ok, _ := path.Match(labelPart, st.Label); ok {
				matched = append(matched, st)
			}
		}
	default:
		for _, st := range steps {
			if st.Label == labelPart {
				matched = append(matched, st)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil, &aliasRefError{ref: ref, msg: "no step matches target"}
	}

	out := make([]endpoint, 0, len(matched))
	for _, st := range matched {
		if schema, ok := st.cargo.Inputs()[param]; ok {
			out = append(out, endpoint{step: st, param: param, ioSide: "inputs", dtype: schema.Dtype})
			continue
		}
		if schema, ok := st.cargo.Outputs()[param]; ok {
			out = append(out, endpoint{step: st, param: param, ioSide: "outputs", dtype: schema.Dtype})
			continue
		}
		return nil, &aliasRefError{ref: ref, msg: "step " + st.Label + " has no parameter " + param}
	}
	return out, nil
}

type aliasRefError struct {
	ref string
	msg string
}

func (e *aliasRefError) Error() string { return e.ref + ": " + e.msg }

// collectAliases runs the three alias-source phases of spec.md §4.5 and
// builds r.aliasList plus the synthesized schemas for alias names the
// recipe does not already declare.
func (r *Recipe) collectAliases() error {
	targets := map[string][]string{}

	for name, schema := range r.InputsOutputs() {
		if len(schema.Aliases) > 0 {
			targets[name] = append(targets[name], schema.Aliases...)
		}
	}
	for name, refs := range r.def.Aliases {
		targets[name] = append(targets[name], refs...)
	}
	for _, st := range r.steps {
		for name, schema := range st.cargo.InputsOutputs() {
			if _, has := st.def.Params[name]; has {
				continue
			}
			if schema.Default != nil || schema.Implicit != nil {
				continue
			}
			auto := st.Label + "_" + name
			if _, collide := r.InputsOutputs()[auto]; collide {
				return &DefinitionError{Fqname: r.fqname, Msg: "auto-alias " + auto + " collides with a declared parameter"}
			}
			targets[auto] = append(targets[auto], st.Label+"."+name)
		}
	}

	r.aliasList = make(map[string][]*AliasInfo, len(targets))
	r.extraInputs = make(map[string]Schema)
	r.extraOutputs = make(map[string]Schema)
	r.implicitAliases = make(map[string]subst.Unresolved)

	for name, refs := range targets {
		declSchema, declared := r.InputsOutputs()[name]
		if declared && len(declSchema.Aliases) == 0 {
			return &DefinitionError{Fqname: r.fqname, Msg: "alias name " + name + " collides with a declared input/output"}
		}

		var infos []*AliasInfo
		var dtype string
		sawInput, sawOutput := false, false
		outputEndpoints := 0
		for _, ref := range refs {
			eps, err := resolveTargetRef(ref, r.steps)
			if err != nil {
				return &DefinitionError{Fqname: r.fqname, Msg: "alias " + name + ": " + err.Error()}
			}
			for _, ep := range eps {
				if dtype == "" {
					dtype = ep.dtype
				} else if ep.dtype != "" && dtype != ep.dtype {
					return &DefinitionError{Fqname: r.fqname, Msg: "alias " + name + " endpoints disagree on dtype"}
				}
				if ep.ioSide == "outputs" {
					sawOutput = true
					outputEndpoints++
				} else {
					sawInput = true
				}
				infos = append(infos, &AliasInfo{Step: ep.step, Param: ep.param, IOSide: ep.ioSide})
			}
		}
		if sawInput && sawOutput {
			return &DefinitionError{Fqname: r.fqname, Msg: "alias " + name + " mixes input-side and output-side endpoints"}
		}
		if outputEndpoints > 1 {
			return &DefinitionError{Fqname: r.fqname, Msg: "alias " + name + " binds more than one output endpoint"}
		}

		r.aliasList[name] = infos
		if !declared {
			if sawOutput {
				r.extraOutputs[name] = Schema{Dtype: dtype}
			} else {
				r.extraInputs[name] = Schema{Dtype: dtype}
			}
		}
		for _, info := range infos {
			if info.IOSide != "outputs" {
				continue
			}
			if schema, ok := info.Step.cargo.Outputs()[info.Param]; ok && schema.Implicit != nil {
				r.implicitAliases[name] = subst.NewUnresolved(info.Step.Label+"."+info.Param, "implicit output not yet produced")
			}
		}
	}
	return nil
}

// propagate runs the fixed-point algorithm of spec.md §4.5: push known
// alias values down, prevalidate every step, pull the first available
// endpoint value up (in declaration order), broadcast it to the other
// endpoints, and repeat once. The algorithm is monotone (each alias
// transitions unset -> set at most once) so two passes suffice (spec.md
// §9). When two endpoints of the same alias resolve to different concrete
// values in the same pass, that is a conflicting pulled-up value and
// raises an AliasConflictError rather than silently picking one (SPEC_FULL
// §1's resolution of the spec's Open Question).
func (r *Recipe) propagate(params map[string]interface{}, ns subst.Namespace) (map[string]interface{}, error) {
	out := mergeParams(params, nil)
	for name, schema := range r.InputsOutputs() {
		if _, present := out[name]; !present && schema.Default != nil {
			out[name] = schema.Default
		}
	}
	for name, u := range r.implicitAliases {
		if _, present := out[name]; !present {
			out[name] = u
		}
	}

	for pass := 0; pass < 2; pass++ {
		for name, infos := range r.aliasList {
			val, present := out[name]
			if present && !subst.IsAbsent(val) {
				for _, info := range infos {
					info.Step.pushParam(info.Param, val)
					info.FromRecipe = true
				}
			}
		}

		for _, st := range r.steps {
			_, _ = st.Prevalidate(ns)
		}

		changed := false
		for name, infos := range r.aliasList {
			cur, present := out[name]
			if present && !subst.IsAbsent(cur) {
				continue
			}
			var resolved *AliasInfo
			var resolvedVal interface{}
			for _, info := range infos {
				if info.Step.validatedParams == nil {
					continue
				}
				v, ok := info.Step.validatedParams[info.Param]
				if !ok || subst.IsAbsent(v) || paramvalid.IsError(v) {
					continue
				}
				if resolved == nil {
					resolved, resolvedVal = info, v
					continue
				}
				if !reflect.DeepEqual(resolvedVal, v) {
					return nil, &AliasConflictError{
						Fqname: r.fqname, Name: name,
						FirstStep: resolved.Step.Label, FirstValue: resolvedVal,
						OtherStep: info.Step.Label, OtherValue: v,
					}
				}
			}
			if resolved == nil {
				continue
			}
			out[name] = resolvedVal
			resolved.FromStep = true
			changed = true
			for _, other := range infos {
				if other == resolved {
					continue
				}
				other.Step.pushParam(other.Param, resolvedVal)
				other.FromRecipe = true
			}
		}
		if !changed {
			break
		}
	}
	return out, nil
}

// pullOutputAliases copies from_step alias values into params after a run,
// per spec.md §4.5 "After execution, outputs marked from_step are written
// back into params from the step's validated_params."
func (r *Recipe) pullOutputAliases(params map[string]interface{}) {
	for name, infos := range r.aliasList {
		for _, info := range infos {
			if info.IOSide != "outputs" || info.Step.validatedParams == nil {
				continue
			}
			v, ok := info.Step.validatedParams[info.Param]
			if ok && !subst.IsAbsent(v) {
				params[name] = v
			}
			break
		}
	}
}
