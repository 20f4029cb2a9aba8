package kitchen

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/reciperun/kitchen/internal/cabrunner"
	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/paramvalid"
	"github.com/reciperun/kitchen/internal/subst"
	"github.com/reciperun/kitchen/internal/typesreg"
)

// Recipe is a Cargo composed of an ordered sequence of Steps plus alias
// wiring and optional for-loop iteration (spec.md §3).
type Recipe struct {
	def RecipeDef

	log      *kitlog.Logger
	fqname   string
	nesting  int
	backend  string
	registry *typesreg.Registry
	runners  *cabrunner.Registry
	provider Provider

	steps               []*Step
	aliasList           map[string][]*AliasInfo
	extraInputs         map[string]Schema
	extraOutputs        map[string]Schema
	implicitAliases     map[string]subst.Unresolved
	protectedFromAssign map[string]bool
	forLoop             *ForLoop

	scatterWorkers int
	selectedTags   map[string]bool
}

// NewRecipe returns an inert Recipe bound to def.
func NewRecipe(def RecipeDef) *Recipe { return &Recipe{def: def} }

func (r *Recipe) Name() string { return r.def.Name }

func (r *Recipe) Inputs() map[string]Schema { return mergeSchemas(r.def.Inputs, r.extraInputs) }

func (r *Recipe) Outputs() map[string]Schema { return mergeSchemas(r.def.Outputs, r.extraOutputs) }

func (r *Recipe) InputsOutputs() map[string]Schema {
	return mergeSchemas(r.def.Inputs, r.def.Outputs)
}

// Finalize binds the recipe's logger/fqname, validates its own declaration,
// finalises every step in order, and runs alias collection — spec.md
// §4.6 "Finalize".
func (r *Recipe) Finalize(fc *FinalizeContext) error {
	r.log = fc.Log
	r.fqname = fc.Fqname
	r.nesting = fc.Nesting
	r.registry = fc.Registry
	r.runners = fc.Runners
	r.provider = fc.Provider
	r.backend = resolveBackend(r.def.Backend, fc.DefaultBackend)
	r.selectedTags = fc.SelectedTags

	r.scatterWorkers = fc.ScatterWorkers
	if r.scatterWorkers <= 0 {
		r.scatterWorkers = runtime.NumCPU() / 4
		if r.scatterWorkers < 1 {
			r.scatterWorkers = 1
		}
	}

	for name, s := range r.InputsOutputs() {
		if err := s.Check(); err != nil {
			return &DefinitionError{Fqname: r.fqname, Msg: "input/output " + name + ": " + err.Error()}
		}
	}

	r.protectedFromAssign = toSet(r.def.ProtectedFromAssign)
	if err := r.validateAssignTargets(); err != nil {
		return err
	}

	fl, err := buildForLoop(r.def.ForLoop, r.InputsOutputs(), r.def.Inputs)
	if err != nil {
		return &DefinitionError{Fqname: r.fqname, Msg: err.Error()}
	}
	r.forLoop = fl

	seen := make(map[string]bool, len(r.def.Steps))
	r.steps = make([]*Step, 0, len(r.def.Steps))
	var prev *Step
	for _, sd := range r.def.Steps {
		if seen[sd.Label] {
			return &DefinitionError{Fqname: r.fqname, Msg: "duplicate step label " + sd.Label}
		}
		seen[sd.Label] = true

		st := &Step{Label: sd.Label, def: sd}
		childFc := &FinalizeContext{
			Provider:       fc.Provider,
			Log:            fc.Log.Child(sd.Label),
			Fqname:         r.fqname + "." + sd.Label,
			Nesting:        r.nesting + 1,
			Registry:       fc.Registry,
			Runners:        fc.Runners,
			DefaultBackend: r.backend,
			ScatterWorkers: fc.ScatterWorkers,
			SelectedTags:   fc.SelectedTags,
		}
		if err := st.Finalize(childFc); err != nil {
			return err
		}
		if prev != nil {
			prev.nextStep = st
			st.prevStep = prev
		}
		prev = st
		r.steps = append(r.steps, st)
	}

	return r.collectAliases()
}

// Prevalidate implements the Cargo interface: loose validation suitable for
// a recipe nested as another recipe's step (spec.md §4.5).
func (r *Recipe) Prevalidate(params map[string]interface{}, ns subst.Namespace) (map[string]interface{}, error) {
	merged := mergeParams(r.def.Defaults, params)
	out, err := r.propagate(merged, ns)
	if err != nil {
		return nil, err
	}
	validated, _ := paramvalid.Validate(r.InputsOutputs(), out, ns, true, r.registry)
	return validated, nil
}

// PrevalidateStrict is the root entry point: it runs Prevalidate then
// aggregates every step-level and self-level validation failure into a
// RecipeValidationError (spec.md §4.6).
func (r *Recipe) PrevalidateStrict(params map[string]interface{}, ns subst.Namespace) (map[string]interface{}, error) {
	merged := mergeParams(r.def.Defaults, params)
	out, err := r.propagate(merged, ns)
	if err != nil {
		return nil, err
	}

	var causes []error
	if _, err := paramvalid.Validate(r.InputsOutputs(), out, ns, false, r.registry); err != nil {
		causes = append(causes, err)
	}
	for _, st := range r.steps {
		if _, err := st.cargo.ValidateInputs(st.validatedParams, ns, st.skip); err != nil {
			causes = append(causes, err)
		}
	}
	if len(causes) > 0 {
		return out, &RecipeValidationError{Fqname: r.fqname, Causes: causes}
	}
	return out, nil
}

func (r *Recipe) ValidateInputs(params map[string]interface{}, ns subst.Namespace, loose bool) (map[string]interface{}, error) {
	return paramvalid.Validate(r.Inputs(), params, ns, loose, r.registry)
}

func (r *Recipe) ValidateOutputs(params map[string]interface{}, ns subst.Namespace, loose bool) (map[string]interface{}, error) {
	return paramvalid.Validate(r.Outputs(), params, ns, loose, r.registry)
}

// RunCargo is spec.md §4.6's "Run(params)": it builds the substitution
// namespace, resolves the for-loop's iteration list, and runs each
// iteration's steps in declaration order — sequentially or, in scatter
// mode, across a bounded worker pool.
func (r *Recipe) RunCargo(ctx context.Context, rc *RunContext) (map[string]interface{}, error) {
	// Work on a copy so a nested recipe's steps/previous/recipe entries do
	// not replace those of the calling recipe's namespace.
	ns := rc.Namespace.Clone()
	if ns == nil {
		ns = subst.Namespace{}
	}
	if _, ok := ns["info"]; !ok {
		ns["info"] = subst.Namespace{}
	}
	if _, ok := ns["config"]; !ok {
		ns["config"] = &subst.NoSubst{Namespace: subst.Namespace{}}
	}
	rootSteps := subst.Namespace{}
	rootPrevious := subst.Namespace{}
	ns["steps"] = &subst.NoSubst{Namespace: rootSteps}
	ns["previous"] = &subst.NoSubst{Namespace: rootPrevious}
	if r.nesting <= 1 {
		if _, ok := ns["root"]; !ok {
			ns["root"] = ns.Clone()
		}
	}

	baseParams := mergeParams(rc.Params, nil)

	iterations, err := r.forLoop.resolveIterations(baseParams)
	if err != nil {
		return nil, err
	}

	scatter := r.forLoop != nil && r.forLoop.Scatter && len(iterations) > 1

	if scatter {
		g, gctx := errgroup.WithContext(ctx)
		sem := semaphore.NewWeighted(int64(r.scatterWorkers))
		for idx, iterVal := range iterations {
			idx, iterVal := idx, iterVal
			if err := sem.Acquire(gctx, 1); err != nil {
				break
			}
			g.Go(func() error {
				defer sem.Release(1)
				iterNS := ns.Clone()
				_, runErr := r.runIteration(gctx, idx, iterVal, baseParams, iterNS)
				return runErr
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		// Scattered iteration outputs are not merged back into params —
		// the source this is ported from discards its worker results too
		// (spec.md §9 open question).
	} else {
		params := baseParams
		for idx, iterVal := range iterations {
			res, err := r.runIteration(ctx, idx, iterVal, params, ns)
			if err != nil {
				return nil, err
			}
			params = res
		}
		baseParams = params
	}

	r.pullOutputAliases(baseParams)

	out := make(map[string]interface{}, len(r.Outputs()))
	for name := range r.Outputs() {
		if v, ok := baseParams[name]; ok {
			out[name] = v
		}
	}
	return out, nil
}

// runIteration runs one for-loop iteration's steps in declaration order
// against iterNS, honoring tags, skip_cond and break_cond, and propagating
// each step's outputs into steps[label] and previous (spec.md §4.6 step 5).
func (r *Recipe) runIteration(ctx context.Context, idx int, iterVal interface{}, params map[string]interface{}, iterNS subst.Namespace) (map[string]interface{}, error) {
	iterParams := mergeParams(params, nil)
	if r.forLoop != nil && r.forLoop.Var != "" {
		iterParams[r.forLoop.Var] = iterVal
		iterParams[r.forLoop.Var+"@index"] = idx
	}
	applyAssign(iterParams, r.def.Assign, r.protectedFromAssign)
	applyAssignBasedOn(iterParams, r.def.AssignBasedOn, r.protectedFromAssign)
	iterNS["recipe"] = subst.Namespace(iterParams)

	stepsNS, _ := iterNS["steps"].(*subst.NoSubst)
	previousNS, _ := iterNS["previous"].(*subst.NoSubst)

	for _, st := range r.steps {
		if !st.hasAnyTag(r.selectedTags) {
			continue
		}
		applyAssign(iterParams, st.def.Assign, nil)
		applyAssignBasedOn(iterParams, st.def.AssignBasedOn, nil)
		iterNS["recipe"] = subst.Namespace(iterParams)

		st.skip = st.def.Skip || evalCond(st.def.SkipCond, iterNS)

		outputs, err := st.Run(ctx, iterNS)
		if err != nil {
			return iterParams, err
		}

		if stepsNS != nil {
			stepsNS.Namespace[st.Label] = subst.Namespace(outputs)
		}
		if previousNS != nil {
			previousNS.Namespace = subst.Namespace(outputs)
		}

		if evalCond(st.def.BreakCond, iterNS) {
			break
		}
	}
	return iterParams, nil
}
