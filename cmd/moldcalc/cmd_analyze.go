package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shmcrekt/legendary-barnacle/internal/geometry"
)

var analyzeFlags struct {
	externalURL string
	jsonOutput  bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Estimate geometry properties of a part file",
	Long: `Analyze runs the local estimation pipeline on a geometry file and
prints the resulting estimate. Mesh files (.stl) are integrated exactly;
text exchange formats (.step, .stp, .iges, .igs) run the heuristic
fallback cascade. The accuracy_tier field reports which stage produced
the estimate.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.externalURL, "external-url", "", "Base URL of an external high-accuracy analyzer")
	f.BoolVar(&analyzeFlags.jsonOutput, "json", false, "Print the estimate as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	est, err := analyzeFile(cmd, args[0], analyzeFlags.externalURL)
	if err != nil {
		return err
	}

	if analyzeFlags.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	}

	printEstimate(cmd, est)
	return nil
}

func analyzeFile(cmd *cobra.Command, path, externalURL string) (geometry.Estimate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return geometry.Estimate{}, fmt.Errorf("read %s: %w", path, err)
	}

	var external geometry.ExternalAnalyzer
	if externalURL != "" {
		external = geometry.NewHTTPAnalyzer(externalURL, zap.NewNop())
	}

	pipeline := geometry.NewPipeline(geometry.DefaultParams(), external, zap.NewNop())
	return pipeline.Analyze(cmd.Context(), filepath.Base(path), data)
}

func printEstimate(cmd *cobra.Command, est geometry.Estimate) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Volume:         %.2f cm3\n", est.VolumeCm3)
	fmt.Fprintf(out, "Dimensions:     %.1f x %.1f x %.1f mm\n", est.LengthMm, est.WidthMm, est.HeightMm)
	fmt.Fprintf(out, "Wall thickness: %.1f mm\n", est.WallThicknessMm)
	fmt.Fprintf(out, "Accuracy:       %s (%s)\n", est.Tier, est.SourceNote)
}
