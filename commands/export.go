package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"spikeplay/internal/application/playback"
	"spikeplay/internal/presentation/formatter"
	"spikeplay/internal/presentation/render"
)

var (
	exportRender renderFlags
	exportOut    string
	exportStats  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <reference-file>",
	Short: "Export every frame of a sequence as SVG files",
	Long: `Loads the full frame sequence and writes one SVG per frame into the
output directory, plus a manifest.json naming them in playback order.
The export is all-or-nothing: a write failure aborts it.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportRender.register(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "",
		"Output directory for SVG frames (required)")
	exportCmd.Flags().BoolVar(&exportStats, "stats", false,
		"Print the activity summary after the export")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	initLogging()
	reference := expandPath(args[0])

	cfg := playback.DefaultConfig()
	exportRender.apply(&cfg)
	cfg.Concurrency = runtime.NumCPU()

	seq, err := playback.LoadSequence(reference, expandPath(searchRoot), cfg.Concurrency)
	if err != nil {
		return err
	}

	renderer := render.NewSVGRenderer(expandPath(exportOut), exportRender.options())
	controller, err := playback.NewController(cfg, renderer)
	if err != nil {
		return err
	}
	if err := controller.Load(seq); err != nil {
		return err
	}

	if err := controller.ExportAll(); err != nil {
		return err
	}
	if err := renderer.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d frames to %s\n", renderer.FrameCount(), expandPath(exportOut))

	if exportStats {
		report := formatter.BuildReport(controller.Summary(10), controller.Topology(), seq.Len())
		return printSummary(report)
	}
	return nil
}
