package configdoc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reciperun/kitchen/internal/configdoc"
)

const sampleDoc = `
cabs:
  echo:
    command: "echo {msg}"
    inputs:
      msg:
        dtype: str
        default: hi
recipes:
  greet:
    steps:
      - label: step1
        cab: echo
`

func TestYAMLProviderLoadBytes(t *testing.T) {
	p := configdoc.NewYAMLProvider()
	if err := p.LoadBytes([]byte(sampleDoc)); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	cab, ok := p.GetCab("echo")
	if !ok {
		t.Fatalf("expected cab %q to be loaded", "echo")
	}
	if cab.Command != "echo {msg}" {
		t.Fatalf("unexpected command: %q", cab.Command)
	}
	if cab.Inputs["msg"].Default != "hi" {
		t.Fatalf("unexpected default: %v", cab.Inputs["msg"].Default)
	}
	recipes := p.Recipes()
	if _, ok := recipes["greet"]; !ok {
		t.Fatalf("expected recipe %q to be loaded", "greet")
	}
}

func TestYAMLProviderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kitchen.yaml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p := configdoc.NewYAMLProvider()
	if err := p.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, ok := p.GetCab("echo"); !ok {
		t.Fatalf("expected cab loaded from file")
	}
}

func TestYAMLProviderMissingCab(t *testing.T) {
	p := configdoc.NewYAMLProvider()
	if _, ok := p.GetCab("nope"); ok {
		t.Fatalf("expected no cab for unknown name")
	}
}

func TestYAMLProviderLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.yaml")
	second := filepath.Join(dir, "b.yaml")
	os.WriteFile(first, []byte("cabs:\n  echo:\n    command: \"echo one\"\n"), 0o644)
	os.WriteFile(second, []byte("cabs:\n  echo:\n    command: \"echo two\"\n"), 0o644)

	p := configdoc.NewYAMLProvider()
	if err := p.LoadFiles(first, second); err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	cab, _ := p.GetCab("echo")
	if cab.Command != "echo two" {
		t.Fatalf("expected later file to win, got %q", cab.Command)
	}
}
