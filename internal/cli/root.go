// Package cli provides the command-line interface for the kitchen recipe
// engine, modeled on the teacher's internal/cli/root.go + recipe.go pair: a
// root command plus run/validate/list-cabs/version subcommands. The engine
// logs through one shared leveled logger; the print helpers below write
// directly to stdout/stderr.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reciperun/kitchen/internal/kitlog"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string

	log *kitlog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kitchen",
	Short: "Declarative recipe/cab workflow engine",
	Long: `kitchen runs declarative recipes: ordered sequences of cabs (external
process invocations) wired together by a substitution namespace and an
alias resolver.

Examples:
  kitchen run analyze --file recipes.yaml --var path=./project
  kitchen validate analyze --file recipes.yaml
  kitchen list-cabs --file recipes.yaml`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	initLogger()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (DEBUG level logging)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an engine options file (backend, ncpu, log level)")

	cobra.OnInitialize(initLogger)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCabsCmd)
}

func initLogger() {
	sink := kitlog.NewWriterSink(os.Stderr)
	level := kitlog.INFO
	switch {
	case verbose:
		level = kitlog.DEBUG
	case quiet:
		level = kitlog.ERROR
	}
	log = kitlog.New(level, sink)
}

// Print helpers
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("✓ "+format+"\n", args...)
	}
}
