package kitchen_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/reciperun/kitchen/internal/cabrunner"
	"github.com/reciperun/kitchen/internal/kitchen"
	"github.com/reciperun/kitchen/internal/kitlog"
	"github.com/reciperun/kitchen/internal/typesreg"
)

type captureSink struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureSink) Write(level kitlog.Level, name, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, msg)
}

func (c *captureSink) all() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}

func newTestExecutor(t *testing.T, def kitchen.RecipeDef, provider kitchen.MapProvider, sink *captureSink) *kitchen.Executor {
	t.Helper()
	log := kitlog.New(kitlog.DEBUG, sink)
	runners := cabrunner.NewRegistry("noop")
	runners.Register("noop", &cabrunner.NoopRunner{})
	exec, err := kitchen.NewExecutor(def, provider, log, typesreg.NewDefaultRegistry(), runners, kitchen.ExecutorOptions{Backend: "noop"})
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	return exec
}

// spec.md §8 scenario 1: trivial cab.
func TestTrivialCab(t *testing.T) {
	sink := &captureSink{}
	provider := kitchen.MapProvider{
		"echo": {Name: "echo", Command: "echo {msg}", Inputs: map[string]kitchen.Schema{
			"msg": {Dtype: "str", Default: "hi"},
		}},
	}
	def := kitchen.RecipeDef{
		Name:  "trivial",
		Steps: []kitchen.StepDef{{Label: "step1", Cab: "echo"}},
	}
	exec := newTestExecutor(t, def, provider, sink)
	if _, err := exec.Run(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sink.all(), "echo hi") {
		t.Fatalf("expected rendered command logged, got: %q", sink.all())
	}
}

// spec.md §8 scenario 2: alias propagation down.
func TestAliasPropagationDown(t *testing.T) {
	sink := &captureSink{}
	provider := kitchen.MapProvider{
		"echo": {Name: "echo", Command: "echo {msg}", Inputs: map[string]kitchen.Schema{
			"msg": {Dtype: "str"},
		}},
	}
	def := kitchen.RecipeDef{
		Name: "down",
		Inputs: map[string]kitchen.Schema{
			"greeting": {Dtype: "str", Default: "hello", Aliases: []string{"step1.msg"}},
		},
		Steps: []kitchen.StepDef{{Label: "step1", Cab: "echo"}},
	}
	exec := newTestExecutor(t, def, provider, sink)
	if _, err := exec.Run(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sink.all(), "echo hello") {
		t.Fatalf("expected step1 to receive the aliased default, got: %q", sink.all())
	}
}

// spec.md §8 scenario 3: alias propagation up.
func TestAliasPropagationUp(t *testing.T) {
	sink := &captureSink{}
	provider := kitchen.MapProvider{
		"writer": {Name: "writer", Command: "touch {out_file}", Outputs: map[string]kitchen.Schema{
			"out_file": {Dtype: "str", Default: "result.txt"},
		}},
	}
	def := kitchen.RecipeDef{
		Name: "up",
		Outputs: map[string]kitchen.Schema{
			"path": {Dtype: "str", Aliases: []string{"step1.out_file"}},
		},
		Steps: []kitchen.StepDef{{Label: "step1", Cab: "writer"}},
	}
	exec := newTestExecutor(t, def, provider, sink)
	out, err := exec.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["path"] != "result.txt" {
		t.Fatalf("expected path=result.txt pulled up from step1.out_file, got %v", out)
	}
}
