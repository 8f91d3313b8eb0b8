package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"spikeplay/internal/application/playback"
	"spikeplay/internal/presentation/formatter"
	"spikeplay/internal/presentation/render"
)

var (
	watchRender renderFlags
	watchStats  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render one snapshot file whenever it changes",
	Long: `Watches a single snapshot file that a running simulator keeps rewriting,
and re-renders on every change, diffing each state against the previous
one to highlight freshly active connections. The topology is fixed by the
first read. Interrupt with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchRender.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchStats, "stats", false,
		"Print the activity summary on exit")
}

func runWatch(cmd *cobra.Command, args []string) error {
	initLogging()
	path := expandPath(args[0])

	cfg := playback.DefaultConfig()
	watchRender.apply(&cfg)

	renderer := render.NewTerminalRenderer(watchRender.options())
	session, err := playback.NewWatchSession(path, cfg, renderer)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runErr := session.Run(ctx)
	renderer.Close()
	if runErr != nil {
		return runErr
	}

	if watchStats {
		report := formatter.BuildReport(session.Summary(10), session.Topology(), session.Frames())
		return printSummary(report)
	}
	return nil
}
