// Package commands wires the CLI surface onto the playback engine.
package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"spikeplay/internal/util"
)

var (
	// Logging related
	logLevel string
	logFile  string

	// Frame discovery
	searchRoot string

	rootCmd = &cobra.Command{
		Use:   "spikeplay",
		Short: "Replay and visualize spiking-neuron network snapshots",
		Long: `spikeplay replays a sequence of recorded snapshots of a spiking-neuron
network and renders, frame by frame, which neurons are firing and which
synaptic connections just carried a spike.

Snapshot files are discovered by naming family from a reference file:
  <prefix>_step<N>.json
  <prefix>_epoch<E>[_<tag>]_digit<D>_step<S>.json

Examples:
  spikeplay play out/net_step0.json                      # loop live in the terminal
  spikeplay play out/net_step0.json --layout spring      # force-directed layout
  spikeplay export out/net_step0.json --out frames/      # one SVG per frame
  spikeplay info out/net_step0.json                      # topology and frame index
  spikeplay watch out/current.json                       # re-render on file change
  spikeplay stats --db runs.db                           # recorded run statistics`,
		SilenceUsage: true,
	}
)

const defaultLogFile = "~/.spikeplay/logs/spikeplay.log"

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path (empty disables file logging)")
	rootCmd.PersistentFlags().StringVar(&searchRoot, "search-root", ".",
		"Fallback directory for frame discovery when the reference file's directory cannot be resolved")
}

// initLogging configures the global logger from the persistent flags. Called
// from every subcommand's RunE.
func initLogging() {
	path := ""
	if logFile != "" {
		path = expandPath(logFile)
		ensureDir(filepath.Dir(path))
	}
	util.InitLogger(logLevel, path, strings.EqualFold(logLevel, "debug"))
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
