package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"spikeplay/internal/application/playback"
	"spikeplay/internal/core/spatial"
	"spikeplay/internal/presentation/formatter"
	"spikeplay/internal/presentation/render"
)

// renderFlags are the visual settings shared by play, export and watch.
type renderFlags struct {
	layout    string
	nodeScale float64
	edgeScale float64
	noLabels  bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.layout, "layout", "layered",
		fmt.Sprintf("Layout strategy (%s)", strings.Join(spatial.Names(), ", ")))
	cmd.Flags().Float64Var(&f.nodeScale, "node-scale", 100,
		"Node size scale factor")
	cmd.Flags().Float64Var(&f.edgeScale, "edge-scale", 2.0,
		"Edge width scale factor")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false,
		"Hide output-neuron digit labels")
}

func (f *renderFlags) apply(cfg *playback.Config) {
	cfg.Strategy = f.layout
	cfg.NodeScale = f.nodeScale
	cfg.EdgeScale = f.edgeScale
	cfg.ShowLabels = !f.noLabels
}

func (f *renderFlags) options() render.Options {
	return render.Options{
		NodeScale:  f.nodeScale,
		EdgeScale:  f.edgeScale,
		ShowLabels: !f.noLabels,
	}
}

// printSummary writes the cumulative activity report to stdout.
func printSummary(report formatter.Report) error {
	return formatter.NewSummaryFormatter(os.Stdout).Format(report)
}
