// kitchen runs declarative recipes of cabs (external process invocations)
// wired together by a substitution namespace and alias resolver.
// For usage information, run: kitchen --help
package main

import (
	"github.com/reciperun/kitchen/internal/cli"
)

func main() {
	cli.Execute()
}
