package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reciperun/kitchen/internal/kitchen"
	"github.com/reciperun/kitchen/internal/subst"
)

// ValidationOutput is the JSON output for the validate command.
type ValidationOutput struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate <recipe>",
	Short: "Validate a recipe's definition and parameters without running it",
	Long: `Finalise a recipe (checking alias targets, assign targets, schema
declarations) and strictly prevalidate its inputs against --var, without
invoking any cab.

Examples:
  kitchen validate analyze --file recipes.yaml
  kitchen validate analyze --file recipes.yaml --var path=./project`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringSlice("file", nil, "Path to a recipe/cab YAML file (repeatable)")
	validateCmd.Flags().StringToString("var", nil, "Set recipe input values (key=value)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	name := args[0]
	vars, _ := cmd.Flags().GetStringToString("var")

	provider, opts, err := loadProviderAndOptions(cmd)
	if err != nil {
		printError("%v", err)
		return err
	}

	exec, err := buildExecutor(name, provider, opts, nil)
	if err != nil {
		var issues []string
		var defErr *kitchen.DefinitionError
		if errors.As(err, &defErr) {
			issues = []string{defErr.Error()}
		} else {
			issues = []string{err.Error()}
		}
		return printValidationResult(false, issues)
	}

	params := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		params[k] = v
	}

	if _, err := exec.Recipe().PrevalidateStrict(params, subst.Namespace{}); err != nil {
		var recErr *kitchen.RecipeValidationError
		if errors.As(err, &recErr) {
			issues := make([]string, len(recErr.Causes))
			for i, c := range recErr.Causes {
				issues[i] = c.Error()
			}
			return printValidationResult(false, issues)
		}
		return printValidationResult(false, []string{err.Error()})
	}

	return printValidationResult(true, nil)
}

func printValidationResult(valid bool, issues []string) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ValidationOutput{Valid: valid, Errors: issues}); err != nil {
			return err
		}
	} else if valid {
		printSuccess("recipe is valid")
	} else {
		fmt.Fprintln(os.Stderr, "Validation failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
	}
	if !valid {
		return fmt.Errorf("validation failed with %d issue(s)", len(issues))
	}
	return nil
}
