// Package cabrunner is the pluggable cab execution backend spec.md §1
// treats as an external collaborator ("runners.run_cab: a pluggable
// callable (cab, params, log) -> exit_status"). It resolves a step's
// effective backend name to a concrete Runner.
package cabrunner

import (
	"context"
	"fmt"
	"sync"

	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/subst"
)

// Spec is the minimal description of a cab invocation a Runner needs —
// deliberately independent of the kitchen package's Cab type so this
// package has no import cycle back to it.
type Spec struct {
	Name      string // cab type name, for log prefixing
	Command   string // command template; the Runner renders it against params and the namespace
	ShellMode bool
}

// Runner executes one cab invocation and returns its exit status
// (spec.md §6 "Cab execution"). A runner may report a non-zero exit as
// exitCode alone or also as an error (NativeRunner returns a
// *process.StimelaCabRuntimeError); the caller treats either as a failure.
type Runner interface {
	RunCab(ctx context.Context, spec Spec, params map[string]interface{}, log *kitlog.Logger, ns subst.Namespace, batchHint int) (exitCode int, err error)
}

// Registry resolves a backend name ("native", "noop", ...) to a Runner,
// matching the step-override > recipe > global-default backend
// resolution of spec.md §4.4.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
	def     string
}

// NewRegistry returns a registry whose default backend is def.
func NewRegistry(def string) *Registry {
	return &Registry{runners: make(map[string]Runner), def: def}
}

func (r *Registry) Register(name string, runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[name] = runner
}

func (r *Registry) Default() string { return r.def }

// Resolve returns the runner for name, or the registry's default backend
// when name is empty.
func (r *Registry) Resolve(name string) (Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.def
	}
	runner, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("no cab runner registered for backend %q", name)
	}
	return runner, nil
}
