package commands

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"spikeplay/internal/application/playback"
	"spikeplay/internal/data/store"
	"spikeplay/internal/presentation/formatter"
	"spikeplay/internal/presentation/render"
)

var (
	playRender   renderFlags
	playInterval int
	playNoLoop   bool
	playTicks    int
	playStats    bool
	playRecordDB string
)

var playCmd = &cobra.Command{
	Use:   "play <reference-file>",
	Short: "Replay a snapshot sequence live in the terminal",
	Long: `Discovers every frame file in the reference file's naming family, orders
them into a timeline, and animates the network in the terminal. Spiked
neurons draw red; edges that just carried a spike draw highlighted.

Playback loops by default; interrupt with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playRender.register(playCmd)
	playCmd.Flags().IntVar(&playInterval, "interval", 200,
		"Frame interval in milliseconds")
	playCmd.Flags().BoolVar(&playNoLoop, "no-loop", false,
		"Stop at the last frame instead of looping")
	playCmd.Flags().IntVar(&playTicks, "ticks", 0,
		"Stop after this many frames (0 = until interrupt)")
	playCmd.Flags().BoolVar(&playStats, "stats", false,
		"Print the activity summary after playback")
	playCmd.Flags().StringVar(&playRecordDB, "record", "",
		"Record run statistics into this SQLite database")
}

func runPlay(cmd *cobra.Command, args []string) error {
	initLogging()
	reference := expandPath(args[0])

	cfg := playback.DefaultConfig()
	playRender.apply(&cfg)
	cfg.Interval = time.Duration(playInterval) * time.Millisecond
	cfg.Loop = !playNoLoop
	cfg.MaxTicks = playTicks
	cfg.Concurrency = runtime.NumCPU()

	seq, err := playback.LoadSequence(reference, expandPath(searchRoot), cfg.Concurrency)
	if err != nil {
		return err
	}

	renderer := render.NewTerminalRenderer(playRender.options())
	controller, err := playback.NewController(cfg, renderer)
	if err != nil {
		return err
	}
	if err := controller.Load(seq); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	startedAt := time.Now()
	runErr := playback.NewOrchestrator(cfg, controller).Run(ctx)
	renderer.Close()
	if runErr != nil {
		return runErr
	}

	if playRecordDB != "" {
		if err := recordRun(controller, reference, cfg.Strategy, seq.Len(), startedAt); err != nil {
			return err
		}
	}
	if playStats {
		report := formatter.BuildReport(controller.Summary(10), controller.Topology(), seq.Len())
		return printSummary(report)
	}
	return nil
}

func recordRun(controller *playback.Controller, base, layout string, frames int, startedAt time.Time) error {
	s, err := store.Open(expandPath(playRecordDB))
	if err != nil {
		return err
	}
	defer s.Close()

	stats := controller.Summary(0)
	return s.RecordRun(store.Run{
		ID:               store.NewRunID(),
		Base:             base,
		Layout:           layout,
		Frames:           frames,
		StartedAt:        startedAt.Unix(),
		FinishedAt:       time.Now().Unix(),
		TotalActivations: stats.TotalActivations,
	}, controller.Counts())
}
