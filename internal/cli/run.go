package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reciperun/kitchen/internal/cabrunner"
	"github.com/reciperun/kitchen/internal/configdoc"
	"github.com/reciperun/kitchen/internal/kitchen"
	"github.com/reciperun/kitchen/internal/typesreg"
)

var runCmd = &cobra.Command{
	Use:   "run <recipe>",
	Short: "Run a recipe",
	Long: `Run a named recipe loaded from one or more YAML files.

Examples:
  kitchen run analyze --file recipes.yaml --var path=./project
  kitchen run analyze --file recipes.yaml --var path=./project --backend noop
  kitchen run analyze --file recipes.yaml --tags fast,cheap`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringSlice("file", nil, "Path to a recipe/cab YAML file (repeatable)")
	runCmd.Flags().StringToString("var", nil, "Set recipe input values (key=value)")
	runCmd.Flags().String("backend", "", "Override the default cab runner backend")
	runCmd.Flags().Int("ncpu", 0, "Override the scatter for-loop worker count")
	runCmd.Flags().StringSlice("tags", nil, "Only run steps carrying one of these tags")
}

func loadProviderAndOptions(cmd *cobra.Command) (*configdoc.YAMLProvider, configdoc.EngineOptions, error) {
	files, _ := cmd.Flags().GetStringSlice("file")
	if len(files) == 0 {
		return nil, configdoc.EngineOptions{}, fmt.Errorf("specify at least one --file")
	}

	provider := configdoc.NewYAMLProvider()
	if err := provider.LoadFiles(files...); err != nil {
		return nil, configdoc.EngineOptions{}, err
	}

	opts, err := configdoc.LoadEngineOptions(configPath)
	if err != nil {
		return nil, configdoc.EngineOptions{}, fmt.Errorf("loading engine options: %w", err)
	}

	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		opts.Backend = backend
	}
	if ncpu, _ := cmd.Flags().GetInt("ncpu"); ncpu > 0 {
		opts.ScatterWorkers = ncpu
	}

	return provider, opts, nil
}

func buildExecutor(name string, provider *configdoc.YAMLProvider, opts configdoc.EngineOptions, tags []string) (*kitchen.Executor, error) {
	def, ok := provider.Recipes()[name]
	if !ok {
		return nil, fmt.Errorf("no such recipe: %s", name)
	}

	runners := cabrunner.NewRegistry(opts.Backend)
	runners.Register("native", cabrunner.NewNativeRunner(0))
	runners.Register("noop", &cabrunner.NoopRunner{})

	return kitchen.NewExecutor(def, provider, log, typesreg.NewDefaultRegistry(), runners, kitchen.ExecutorOptions{
		Backend:        opts.Backend,
		ScatterWorkers: opts.ScatterWorkers,
		SelectedTags:   tags,
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	name := args[0]
	vars, _ := cmd.Flags().GetStringToString("var")
	tags, _ := cmd.Flags().GetStringSlice("tags")

	provider, opts, err := loadProviderAndOptions(cmd)
	if err != nil {
		printError("%v", err)
		return err
	}

	exec, err := buildExecutor(name, provider, opts, tags)
	if err != nil {
		printError("%v", err)
		return err
	}

	printInfo("Running recipe: %s", name)
	printVerbose("backend=%s ncpu=%d tags=%s", opts.Backend, opts.ScatterWorkers, strings.Join(tags, ","))

	params := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		params[k] = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	out, err := exec.Run(ctx, params)
	if err != nil {
		printError("recipe failed: %v", err)
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printSuccess("recipe %q completed", name)
	for k, v := range out {
		printInfo("  %s = %v", k, v)
	}
	return nil
}
