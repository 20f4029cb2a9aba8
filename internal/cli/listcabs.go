package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/reciperun/kitchen/internal/configdoc"
)

var listCabsCmd = &cobra.Command{
	Use:   "list-cabs",
	Short: "List every cab definition loaded from the given files",
	Long: `List the cab definitions available to step "cab:" references.

Examples:
  kitchen list-cabs --file cabs.yaml`,
	RunE: runListCabs,
}

func init() {
	listCabsCmd.Flags().StringSlice("file", nil, "Path to a recipe/cab YAML file (repeatable)")
}

func runListCabs(cmd *cobra.Command, args []string) error {
	files, _ := cmd.Flags().GetStringSlice("file")
	if len(files) == 0 {
		err := fmt.Errorf("specify at least one --file")
		printError("%v", err)
		return err
	}

	provider := configdoc.NewYAMLProvider()
	if err := provider.LoadFiles(files...); err != nil {
		printError("%v", err)
		return err
	}

	names := make([]string, 0, len(provider.Cabs()))
	for name := range provider.Cabs() {
		names = append(names, name)
	}
	sort.Strings(names)

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	}

	printInfo("Cabs:")
	for _, name := range names {
		cab := provider.Cabs()[name]
		printInfo("  %-20s %s", name, cab.Command)
	}
	return nil
}
