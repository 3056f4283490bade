package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "moldcalc",
	Short: "Estimate part geometry and injection-molding cost from a file",
	Long: "Moldcalc estimates volume, bounding dimensions, and wall thickness\n" +
		"from an uploaded geometry file (STL, STEP, IGES) and prices the part\n" +
		"for injection molding without a running server.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
