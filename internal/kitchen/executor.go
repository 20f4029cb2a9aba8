package kitchen

import (
	"context"

	"github.com/reciperun/kitchen/internal/cabrunner"
	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/subst"
	"github.com/reciperun/kitchen/internal/typesreg"
)

// ExecutorOptions configures the root Recipe Executor (spec.md §4.6).
type ExecutorOptions struct {
	Backend        string
	ScatterWorkers int
	SelectedTags   []string
}

// Executor is the named entry point for spec.md §4.6's "Recipe Executor":
// it owns the root Recipe and drives Finalize/PrevalidateStrict/Run.
type Executor struct {
	recipe *Recipe
	log    *kitlog.Logger
}

// NewExecutor finalises def into a root Recipe, ready to run.
func NewExecutor(def RecipeDef, provider Provider, log *kitlog.Logger, registry *typesreg.Registry, runners *cabrunner.Registry, opts ExecutorOptions) (*Executor, error) {
	r := NewRecipe(def)
	fc := &FinalizeContext{
		Provider:       provider,
		Log:            log,
		Fqname:         def.Name,
		Nesting:        0,
		Registry:       registry,
		Runners:        runners,
		DefaultBackend: opts.Backend,
		ScatterWorkers: opts.ScatterWorkers,
		SelectedTags:   toSet(opts.SelectedTags),
	}
	if err := r.Finalize(fc); err != nil {
		return nil, err
	}
	return &Executor{recipe: r, log: log}, nil
}

// Recipe returns the finalised root recipe, for callers that want to
// introspect its schema (e.g. a `list-cabs`/`validate` CLI command).
func (e *Executor) Recipe() *Recipe { return e.recipe }

// Run validates params strictly against the root recipe, then executes it
// (spec.md §4.6 "Prevalidate" + "Run").
func (e *Executor) Run(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	ns := subst.Namespace{}
	validated, err := e.recipe.PrevalidateStrict(params, ns)
	if err != nil {
		return nil, err
	}
	return e.recipe.RunCargo(ctx, &RunContext{
		Ctx:       ctx,
		Params:    validated,
		Namespace: ns,
		Log:       e.log,
		Backend:   e.recipe.backend,
	})
}
