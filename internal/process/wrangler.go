package process

import "github.com/reciperun/kitchen/internal/kitlog"

// Stream identifies which child stream a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Wrangler is the pluggable output filter+classifier spec.md §4.7 calls
// for: it sees every complete line before it reaches the log pipeline and
// may rewrite it, reclassify its level, or drop it entirely.
type Wrangler interface {
	Wrangle(stream Stream, line string) (text string, level kitlog.Level, drop bool)
}

// defaultWrangler implements the spec's default policy: stdout -> INFO,
// stderr -> WARNING, no rewriting, nothing dropped.
type defaultWrangler struct{}

func (defaultWrangler) Wrangle(stream Stream, line string) (string, kitlog.Level, bool) {
	if stream == Stderr {
		return line, kitlog.WARNING, false
	}
	return line, kitlog.INFO, false
}

// DefaultWrangler returns the spec's default output wrangler.
func DefaultWrangler() Wrangler { return defaultWrangler{} }
