// Package render turns per-tick frame descriptors into visible output. The
// engine core only ever sees the FrameRenderer interface; everything that
// touches escape codes or markup lives here.
package render

import (
	"spikeplay/internal/core/spatial"
	"spikeplay/internal/core/topology"

	"spikeplay/internal/core/model"
)

// FrameRenderer consumes assembled frames. Setup is called once per session
// with the static topology and layout; RenderFrame once per tick; Close when
// the session ends.
type FrameRenderer interface {
	Setup(topo *topology.Topology, layout spatial.Layout) error
	RenderFrame(frame *model.RenderFrame) error
	Close() error
}

// Options tunes the shipped renderers.
type Options struct {
	NodeScale  float64
	EdgeScale  float64
	ShowLabels bool
}

// DefaultOptions returns the standard rendering options.
func DefaultOptions() Options {
	return Options{
		NodeScale:  100,
		EdgeScale:  2.0,
		ShowLabels: true,
	}
}
