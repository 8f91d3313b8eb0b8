package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"spikeplay/internal/application/playback"
	"spikeplay/internal/core/model"
	"spikeplay/internal/core/topology"
)

var infoCmd = &cobra.Command{
	Use:   "info <reference-file>",
	Short: "Summarize a sequence's topology and timeline without playing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	initLogging()
	reference := expandPath(args[0])

	seq, err := playback.LoadSequence(reference, expandPath(searchRoot), runtime.NumCPU())
	if err != nil {
		return err
	}
	topo := topology.Build(seq.First())

	fmt.Printf("Sequence: %d frames\n", seq.Len())
	fmt.Printf("Topology: %d neurons, %d connections\n", topo.NodeCount(), topo.EdgeCount())
	fmt.Printf("Roles:    %d input, %d hidden, %d output\n",
		len(topo.ByRole(model.RoleInput)),
		len(topo.ByRole(model.RoleHidden)),
		len(topo.ByRole(model.RoleOutput)))

	maxIn, maxOut := 0, 0
	for _, id := range topo.NodeIDs() {
		if d := topo.InDegree(id); d > maxIn {
			maxIn = d
		}
		if d := topo.OutDegree(id); d > maxOut {
			maxOut = d
		}
	}
	fmt.Printf("Degrees:  max in %d, max out %d\n", maxIn, maxOut)

	fmt.Println("\nFrames:")
	for i := 0; i < seq.Len(); i++ {
		meta := seq.Frame(i).Meta
		fmt.Printf("  %3d  %-28s %s\n", i, meta.Label(), meta.Path)
	}
	return nil
}
