package configdoc

import (
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/reciperun/kitchen/internal/kitlog"
)

// EngineOptions are the options that sit outside any single recipe: how
// many scatter workers to run, which runner backend to default to, and
// what level to log at (spec.md §4.6 "config.opts.dist.ncpu", §6).
type EngineOptions struct {
	ScatterWorkers int
	Backend        string
	LogLevel       kitlog.Level
}

// defaultScatterWorkers is one quarter of the available CPUs, minimum 1
// (spec.md §4.6's default worker pool size).
func defaultScatterWorkers() int {
	n := runtime.NumCPU() / 4
	if n < 1 {
		n = 1
	}
	return n
}

// LoadEngineOptions resolves EngineOptions by layering, in increasing
// priority: built-in defaults, an optional config file (if path != ""),
// then environment variables prefixed KITCHEN_ — the same file-then-env
// layering steveyegge-beads' cmd/bd/config.go gives viper, generalized from
// one ad-hoc validate() pass into a typed options struct.
func LoadEngineOptions(path string) (EngineOptions, error) {
	v := viper.New()
	v.SetDefault("dist.ncpu", defaultScatterWorkers())
	v.SetDefault("backend", "native")
	v.SetDefault("log_level", "INFO")

	v.SetEnvPrefix("KITCHEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return EngineOptions{}, err
			}
		}
	}

	level, ok := kitlog.ParseLevel(v.GetString("log_level"))
	if !ok {
		level = kitlog.INFO
	}

	ncpu := v.GetInt("dist.ncpu")
	if ncpu < 1 {
		ncpu = 1
	}

	return EngineOptions{
		ScatterWorkers: ncpu,
		Backend:        v.GetString("backend"),
		LogLevel:       level,
	}, nil
}
