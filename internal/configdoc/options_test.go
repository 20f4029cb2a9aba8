package configdoc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reciperun/kitchen/internal/configdoc"
	"github.com/reciperun/kitchen/internal/kitlog"
)

func TestLoadEngineOptionsDefaults(t *testing.T) {
	opts, err := configdoc.LoadEngineOptions("")
	if err != nil {
		t.Fatalf("LoadEngineOptions: %v", err)
	}
	if opts.ScatterWorkers < 1 {
		t.Fatalf("expected at least 1 scatter worker, got %d", opts.ScatterWorkers)
	}
	if opts.Backend != "native" {
		t.Fatalf("expected default backend native, got %q", opts.Backend)
	}
	if opts.LogLevel != kitlog.INFO {
		t.Fatalf("expected default log level INFO, got %v", opts.LogLevel)
	}
}

func TestLoadEngineOptionsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	content := "backend: noop\nlog_level: debug\ndist:\n  ncpu: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	opts, err := configdoc.LoadEngineOptions(path)
	if err != nil {
		t.Fatalf("LoadEngineOptions: %v", err)
	}
	if opts.Backend != "noop" {
		t.Fatalf("expected backend noop, got %q", opts.Backend)
	}
	if opts.LogLevel != kitlog.DEBUG {
		t.Fatalf("expected log level DEBUG, got %v", opts.LogLevel)
	}
	if opts.ScatterWorkers != 3 {
		t.Fatalf("expected ncpu 3, got %d", opts.ScatterWorkers)
	}
}

func TestLoadEngineOptionsMissingFileIsNotAnError(t *testing.T) {
	opts, err := configdoc.LoadEngineOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected missing config file to fall back to defaults, got: %v", err)
	}
	if opts.Backend != "native" {
		t.Fatalf("expected default backend, got %q", opts.Backend)
	}
}
