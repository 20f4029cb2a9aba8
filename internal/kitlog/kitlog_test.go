package kitlog_test

import (
	"strings"
	"testing"

	"github.com/reciperun/kitchen/internal/kitlog"
)

type captureSink struct {
	lines []string
}

func (c *captureSink) Write(level kitlog.Level, name, msg string) {
	c.lines = append(c.lines, level.String()+" "+name+" "+msg)
}

func TestChildLoggerNamesAreDotJoined(t *testing.T) {
	sink := &captureSink{}
	root := kitlog.New(kitlog.INFO, sink)
	child := root.Child("recipe1").Child("step1")
	child.Info("hello")

	if child.Name() != "recipe1.step1" {
		t.Fatalf("got name %q", child.Name())
	}
	if len(sink.lines) != 1 || !strings.Contains(sink.lines[0], "recipe1.step1") {
		t.Fatalf("got %v", sink.lines)
	}
}

func TestLevelFiltering(t *testing.T) {
	sink := &captureSink{}
	l := kitlog.New(kitlog.WARNING, sink)
	l.Info("suppressed")
	l.Warning("shown")

	if len(sink.lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %v", len(sink.lines), sink.lines)
	}
}

func TestParseLevel(t *testing.T) {
	lvl, ok := kitlog.ParseLevel("warning")
	if !ok || lvl != kitlog.WARNING {
		t.Fatalf("got %v, %v", lvl, ok)
	}
	if _, ok := kitlog.ParseLevel("bogus"); ok {
		t.Fatalf("expected unrecognized level to report ok=false")
	}
}
