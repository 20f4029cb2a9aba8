package kitchen

import (
	"context"

	"github.com/reciperun/kitchen/internal/cabrunner"
	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/subst"
	"github.com/reciperun/kitchen/internal/typesreg"
)

// Cargo is spec.md §4.3's capability set implemented by both Cab and
// Recipe — "a tagged variant... the step does not need to know which
// variant it carries beyond dispatch at run time" (spec.md §9).
type Cargo interface {
	Name() string
	Inputs() map[string]Schema
	Outputs() map[string]Schema
	InputsOutputs() map[string]Schema
	Finalize(fc *FinalizeContext) error
	Prevalidate(params map[string]interface{}, ns subst.Namespace) (map[string]interface{}, error)
	ValidateInputs(params map[string]interface{}, ns subst.Namespace, loose bool) (map[string]interface{}, error)
	ValidateOutputs(params map[string]interface{}, ns subst.Namespace, loose bool) (map[string]interface{}, error)
	RunCargo(ctx context.Context, rc *RunContext) (map[string]interface{}, error)
}

// FinalizeContext threads the collaborators and ambient state a cargo needs
// while binding itself at finalise time — the "config" collaborator
// (Provider), logger, fully-qualified name, nesting depth, and the two
// pluggable registries (spec.md §1).
type FinalizeContext struct {
	Provider       Provider
	Log            *kitlog.Logger
	Fqname         string
	Nesting        int
	Registry       *typesreg.Registry
	Runners        *cabrunner.Registry
	DefaultBackend string

	// ScatterWorkers bounds scatter-mode for-loop concurrency
	// (config.opts.dist.ncpu, spec.md §4.6); 0 means "compute the default
	// of one quarter of host cores, minimum 1" at first use.
	ScatterWorkers int
	// SelectedTags, when non-empty, restricts execution to steps carrying
	// at least one of these tags (spec.md §3 Step "tags").
	SelectedTags map[string]bool
}

// RunContext carries one invocation's effective parameters, substitution
// namespace, logger, and resolved backend into Cargo.RunCargo.
type RunContext struct {
	Ctx       context.Context
	Params    map[string]interface{}
	Namespace subst.Namespace
	Log       *kitlog.Logger
	Backend   string
	BatchHint int
}
