package kitchen

import (
	"context"
	"strings"

	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/subst"
)

// Step is one invocation of a Cargo with concrete per-invocation overrides
// (spec.md §3, §4.4).
type Step struct {
	Label string
	def   StepDef

	cargo   Cargo
	log     *kitlog.Logger
	fqname  string
	backend string
	skip    bool
	tags    map[string]bool

	pushedParams    map[string]interface{}
	validatedParams map[string]interface{}

	prevStep *Step
	nextStep *Step
}

// Finalize binds the step's cargo (exactly one of cab/recipe, spec.md §3)
// and its child logger/fqname/backend.
func (s *Step) Finalize(fc *FinalizeContext) error {
	hasCab := s.def.Cab != ""
	hasRecipe := s.def.Recipe != nil
	if hasCab == hasRecipe {
		return &DefinitionError{Fqname: fc.Fqname, Msg: "step must set exactly one of cab, recipe"}
	}

	if hasCab {
		cabDef, ok := fc.Provider.GetCab(s.def.Cab)
		if !ok {
			return &DefinitionError{Fqname: fc.Fqname, Msg: "no such cab: " + s.def.Cab}
		}
		s.cargo = NewCab(cabDef)
	} else {
		s.cargo = NewRecipe(*s.def.Recipe)
	}

	s.fqname = fc.Fqname
	s.log = fc.Log
	s.backend = resolveBackend(s.def.Backend, fc.DefaultBackend)
	s.tags = toSet(s.def.Tags)
	s.pushedParams = make(map[string]interface{})

	childFc := &FinalizeContext{
		Provider:       fc.Provider,
		Log:            fc.Log,
		Fqname:         fc.Fqname,
		Nesting:        fc.Nesting,
		Registry:       fc.Registry,
		Runners:        fc.Runners,
		DefaultBackend: s.backend,
		ScatterWorkers: fc.ScatterWorkers,
		SelectedTags:   fc.SelectedTags,
	}
	return s.cargo.Finalize(childFc)
}

// pushParam records a value to be merged into this step's params ahead of
// its next Prevalidate — the alias resolver's "push down" (spec.md §4.5
// step 1).
func (s *Step) pushParam(name string, value interface{}) {
	s.pushedParams[name] = value
}

// Prevalidate merges declared step params under any pushed alias values and
// prevalidates the bound cargo.
func (s *Step) Prevalidate(ns subst.Namespace) (map[string]interface{}, error) {
	merged := mergeParams(s.def.Params, s.pushedParams)
	validated, err := s.cargo.Prevalidate(merged, ns)
	s.validatedParams = validated
	return validated, err
}

// hasAnyTag reports whether the step carries any of the requested tags, or
// true when selected is empty (no tag filter applied).
func (s *Step) hasAnyTag(selected map[string]bool) bool {
	if len(selected) == 0 {
		return true
	}
	for t := range selected {
		if s.tags[t] {
			return true
		}
	}
	return false
}

// evalCond resolves a skip_cond/break_cond template against ns and reports
// its truthiness; an unresolved or empty condition is treated as false.
func evalCond(condText string, ns subst.Namespace) bool {
	if strings.TrimSpace(condText) == "" {
		return false
	}
	val, err := subst.Resolve(condText, ns)
	if err != nil || subst.IsAbsent(val) {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "0", "no":
			return false
		default:
			return true
		}
	default:
		return true
	}
}

// Run validates inputs, invokes the cargo, validates outputs, and returns
// the output subset (spec.md §3 Lifecycle "run(params)").
func (s *Step) Run(ctx context.Context, ns subst.Namespace) (map[string]interface{}, error) {
	// Re-prevalidate against this call's namespace rather than trusting the
	// cached prevalidate-time snapshot: a template like "{recipe.i}" only
	// becomes concrete once the owning for-loop iteration has bound its
	// variable into ns (spec.md §4.6 step 5c), and defaults for
	// output-side parameters (e.g. a file path the cab writes to) must
	// already be filled in before the command is rendered.
	raw := mergeParams(s.def.Params, s.pushedParams)
	effective, _ := s.cargo.Prevalidate(raw, ns)
	s.validatedParams = effective
	loose := s.skip

	validatedInputs, err := s.cargo.ValidateInputs(effective, ns, loose)
	if err != nil {
		if s.skip {
			s.log.Warning("skipped step has invalid inputs: %v", err)
		} else {
			return nil, err
		}
	}

	if s.skip {
		s.log.Info("skipping step")
		return map[string]interface{}{}, nil
	}

	outputs, err := s.cargo.RunCargo(ctx, &RunContext{
		Ctx:       ctx,
		Params:    validatedInputs,
		Namespace: ns,
		Log:       s.log,
		Backend:   s.backend,
	})
	if err != nil {
		return nil, err
	}

	merged := mergeParams(validatedInputs, outputs)
	validatedOutputs, err := s.cargo.ValidateOutputs(merged, ns, loose)
	if err != nil {
		return nil, err
	}

	s.validatedParams = mergeParams(s.validatedParams, validatedOutputs)
	return validatedOutputs, nil
}
