package cabrunner

import (
	"context"

	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/subst"
)

// NoopRunner logs the rendered command it would have run and returns
// ExitCode without spawning anything — useful for a dry run (--backend noop) and for
// exercising the recipe graph in tests without a real subprocess.
type NoopRunner struct {
	ExitCode int
}

func (n *NoopRunner) RunCab(ctx context.Context, spec Spec, params map[string]interface{}, log *kitlog.Logger, ns subst.Namespace, batchHint int) (int, error) {
	rendered, err := renderCommand(spec.Command, params, ns)
	if err != nil {
		return -1, err
	}
	if log != nil {
		log.Info("(dry-run) %s", rendered)
	}
	return n.ExitCode, nil
}
