// ClashCore resolves turn-based dice clash combats between two units
// defined in Lua content files.
// Usage: clashcore run [--manual] [--plain] [--seed N] <encounter> | <left> <right>
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
