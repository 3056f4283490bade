package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shmcrekt/legendary-barnacle/internal/catalog"
	"github.com/shmcrekt/legendary-barnacle/internal/quote"
)

var quoteFlags struct {
	catalogPath string
	externalURL string
	materialID  string
	colorID     string
	cavities    int
	jsonOutput  bool
}

var quoteCmd = &cobra.Command{
	Use:   "quote <file>",
	Short: "Estimate geometry and price the part end to end",
	Long: `Quote analyzes a geometry file and runs the injection-molding cost
calculator against the selected material, color, and cavity count.
Catalog defaults are built in; --catalog points at a YAML override.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteFlags.catalogPath, "catalog", "", "Path to a YAML catalog override")
	f.StringVar(&quoteFlags.externalURL, "external-url", "", "Base URL of an external high-accuracy analyzer")
	f.StringVarP(&quoteFlags.materialID, "material", "m", "abs", "Material catalog ID")
	f.StringVarP(&quoteFlags.colorID, "color", "c", "natural", "Color catalog ID")
	f.IntVar(&quoteFlags.cavities, "cavities", 1, "Number of mold cavities")
	f.BoolVar(&quoteFlags.jsonOutput, "json", false, "Print the quote as JSON")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(quoteFlags.catalogPath)
	if err != nil {
		return err
	}

	material, ok := cat.MaterialByID(quoteFlags.materialID)
	if !ok {
		return fmt.Errorf("unknown material %q", quoteFlags.materialID)
	}
	color, ok := cat.ColorByID(quoteFlags.colorID)
	if !ok {
		return fmt.Errorf("unknown color %q", quoteFlags.colorID)
	}
	if quoteFlags.cavities < 1 {
		return fmt.Errorf("cavities must be a positive integer")
	}

	est, err := analyzeFile(cmd, args[0], quoteFlags.externalURL)
	if err != nil {
		return err
	}

	result := quote.Calculate(est, quote.Selection{
		Material:    material,
		Color:       color,
		CavityCount: quoteFlags.cavities,
	}, cat.Rules, cat.Machines)

	if quoteFlags.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printEstimate(cmd, est)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Material:       %s, %.2f g (%s)\n", material.Name, result.MaterialWeightG, color.Name)
	fmt.Fprintf(out, "Mold envelope:  %.0f x %.0f mm\n", result.MoldWidthMm, result.MoldHeightMm)
	machineNote := ""
	if result.MachineCapped {
		machineNote = " (largest available, mold exceeds envelope)"
	}
	fmt.Fprintf(out, "Machine:        %s%s\n", result.Machine.Name, machineNote)
	fmt.Fprintf(out, "Cycle time:     %.2f s (%.1f parts/hour)\n", result.CycleTimeSec, result.PartsPerHour)
	fmt.Fprintf(out, "Material cost:  $%.4f\n", result.RawMaterialCost+result.ColorCost)
	fmt.Fprintf(out, "Machine cost:   $%.4f\n", result.MachineCostPerPart)
	fmt.Fprintf(out, "Total per part: $%.4f\n", result.TotalCostPerPart)
	return nil
}
