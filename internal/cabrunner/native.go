package cabrunner

import (
	"context"
	"time"

	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/process"
	"github.com/reciperun/kitchen/internal/subst"
)

// NativeRunner executes a cab as a real subprocess via the Process
// Supervisor (internal/process) — the "native" backend, grounded in the
// teacher's agent/tools.go DockerBuildTool/DockerRunTool pattern of
// building an exec.CommandContext from a rendered command string.
type NativeRunner struct {
	timeoutSeconds float64 // bounds a single cab invocation; 0 disables it
}

// NewNativeRunner returns a NativeRunner with the given per-cab timeout in
// seconds (0 disables it).
func NewNativeRunner(timeoutSeconds float64) *NativeRunner {
	return &NativeRunner{timeoutSeconds: timeoutSeconds}
}

func (n *NativeRunner) RunCab(ctx context.Context, spec Spec, params map[string]interface{}, log *kitlog.Logger, ns subst.Namespace, batchHint int) (int, error) {
	rendered, err := renderCommand(spec.Command, params, ns)
	if err != nil {
		return -1, err
	}

	cfg := process.Config{
		ShellMode:   true,
		Command:     rendered,
		CommandName: spec.Name,
		Timeout:     time.Duration(n.timeoutSeconds * float64(time.Second)),
	}
	return process.New(cfg).Run(ctx, log)
}

func renderCommand(template string, params map[string]interface{}, ns subst.Namespace) (string, error) {
	merged := ns.Clone()
	for k, v := range params {
		merged[k] = v
	}
	val, err := subst.Resolve(template, merged)
	if err != nil {
		return "", err
	}
	if u, ok := val.(subst.Unresolved); ok {
		return "", u
	}
	if s, ok := val.(string); ok {
		return s, nil
	}
	return template, nil
}
