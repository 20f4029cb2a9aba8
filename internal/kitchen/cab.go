package kitchen

import (
	"context"

	"github.com/reciperun/kitchen/internal/cabrunner"
	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/paramvalid"
	"github.com/reciperun/kitchen/internal/process"
	"github.com/reciperun/kitchen/internal/subst"
	"github.com/reciperun/kitchen/internal/typesreg"
)

// Cab is a Cargo backed by an external command (spec.md §3, §4.3).
type Cab struct {
	def CabDef

	log      *kitlog.Logger
	fqname   string
	backend  string
	registry *typesreg.Registry
	runners  *cabrunner.Registry
}

// NewCab returns an inert Cab bound to def, per spec.md §3's "Steps and
// recipes are constructed inert."
func NewCab(def CabDef) *Cab { return &Cab{def: def} }

func (c *Cab) Name() string                      { return c.def.Name }
func (c *Cab) Inputs() map[string]Schema         { return c.def.Inputs }
func (c *Cab) Outputs() map[string]Schema        { return c.def.Outputs }
func (c *Cab) InputsOutputs() map[string]Schema  { return mergeSchemas(c.def.Inputs, c.def.Outputs) }
func (c *Cab) Defaults() map[string]interface{}  { return c.def.Defaults }
func (c *Cab) AssignMap() map[string]interface{} { return c.def.Assign }
func (c *Cab) AssignBasedOnMap() map[string]AssignBasedOn {
	return c.def.AssignBasedOn
}

func (c *Cab) Finalize(fc *FinalizeContext) error {
	c.log = fc.Log
	c.fqname = fc.Fqname
	c.backend = resolveBackend(c.def.Backend, fc.DefaultBackend)
	c.registry = fc.Registry
	c.runners = fc.Runners

	for name, s := range c.InputsOutputs() {
		if err := s.Check(); err != nil {
			return &DefinitionError{Fqname: c.fqname, Msg: "input/output " + name + ": " + err.Error()}
		}
	}
	return nil
}

// Prevalidate merges cab-level defaults under params and type-checks
// loosely — required-missing parameters become Unresolved rather than
// raising, since at this point aliases may still be mid-flight (spec.md
// §4.5 step 2's "prevalidate all steps").
func (c *Cab) Prevalidate(params map[string]interface{}, ns subst.Namespace) (map[string]interface{}, error) {
	merged := mergeParams(c.def.Defaults, params)
	validated, _ := paramvalid.Validate(c.InputsOutputs(), merged, ns, true, c.registry)
	return validated, nil
}

func (c *Cab) ValidateInputs(params map[string]interface{}, ns subst.Namespace, loose bool) (map[string]interface{}, error) {
	return paramvalid.Validate(c.Inputs(), params, ns, loose, c.registry)
}

// ValidateOutputs additionally enforces existence of required file/dir
// output artifacts after a run, per spec.md §4.3.
func (c *Cab) ValidateOutputs(params map[string]interface{}, ns subst.Namespace, loose bool) (map[string]interface{}, error) {
	validated, err := paramvalid.Validate(c.Outputs(), params, ns, loose, c.registry)
	if loose {
		return validated, nil
	}
	var missing []string
	for name, schema := range c.Outputs() {
		if !schema.Required {
			continue
		}
		val, present := validated[name]
		if !present || subst.IsAbsent(val) || paramvalid.IsError(val) {
			missing = append(missing, name)
			continue
		}
		if schema.Dtype == "file" || schema.Dtype == "dir" {
			if path, ok := val.(string); ok && !typesreg.Exists(path) {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		return validated, &paramvalid.StepValidationError{Names: missing}
	}
	return validated, err
}

// RunCargo renders the cab's command template against the effective
// parameters and dispatches it through the resolved backend runner.
func (c *Cab) RunCargo(ctx context.Context, rc *RunContext) (map[string]interface{}, error) {
	runner, err := c.runners.Resolve(rc.Backend)
	if err != nil {
		return nil, err
	}
	spec := cabrunner.Spec{Name: c.Name(), Command: c.def.Command, ShellMode: true}
	code, err := runner.RunCab(ctx, spec, rc.Params, rc.Log, rc.Namespace, rc.BatchHint)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, &process.StimelaCabRuntimeError{Command: c.Name(), ExitCode: code}
	}

	out := make(map[string]interface{}, len(c.Outputs()))
	for name := range c.Outputs() {
		if v, ok := rc.Params[name]; ok {
			out[name] = v
		}
	}
	return out, nil
}
