package playback

import (
	"context"
	"fmt"

	"spikeplay/internal/core/activity"
	"spikeplay/internal/core/model"
	"spikeplay/internal/core/spatial"
	"spikeplay/internal/core/topology"
	"spikeplay/internal/data/parser"
	"spikeplay/internal/data/watcher"
	"spikeplay/internal/presentation/render"
	"spikeplay/internal/util"
)

// WatchSession re-reads one snapshot file on every filesystem change and
// diffs each reload against the previously observed state. The topology and
// layout are fixed by the first successful read; a simulator appending
// neurons mid-run falls under the usual lenient skip.
type WatchSession struct {
	path     string
	cfg      Config
	parser   *parser.Parser
	renderer render.FrameRenderer

	topo     *topology.Topology
	layout   spatial.Layout
	detector *activity.Detector
	prev     *model.Snapshot
	frames   int
}

// NewWatchSession reads the file once to establish the scene and prepares
// the renderer. The first frame is rendered immediately (with an empty
// activity set, there being no previous state).
func NewWatchSession(path string, cfg Config, renderer render.FrameRenderer) (*WatchSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid watch config: %w", err)
	}

	p := parser.NewParser(1)
	snap, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}

	topo := topology.Build(snap)
	layout, err := spatial.Compute(topo, cfg.Strategy, spatial.DefaultParams())
	if err != nil {
		return nil, err
	}
	if err := renderer.Setup(topo, layout); err != nil {
		return nil, fmt.Errorf("renderer setup: %w", err)
	}

	ws := &WatchSession{
		path:     path,
		cfg:      cfg,
		parser:   p,
		renderer: renderer,
		topo:     topo,
		layout:   layout,
		detector: activity.NewDetector(topo),
	}
	ws.present(snap)
	return ws, nil
}

// Run blocks consuming change events until the context is cancelled.
func (ws *WatchSession) Run(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(ws.path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", ws.path, err)
	}
	defer fw.Close()

	util.LogInfof("Watching %s for changes", ws.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-fw.Events():
			if !ok {
				return nil
			}
			ws.reload()
		}
	}
}

// Summary returns the cumulative activity statistics of the watch session.
func (ws *WatchSession) Summary(topK int) activity.Stats {
	return ws.detector.Summary(topK)
}

// Topology returns the session topology fixed by the first read.
func (ws *WatchSession) Topology() *topology.Topology {
	return ws.topo
}

// Frames returns how many states have been presented.
func (ws *WatchSession) Frames() int {
	return ws.frames
}

// reload parses the rewritten file and presents it. A file caught
// mid-rewrite fails to parse; the previous state stays on screen and the
// next event retries.
func (ws *WatchSession) reload() {
	snap, err := ws.parser.ParseFile(ws.path)
	if err != nil {
		util.LogWarnf("Skipping unreadable rewrite of %s: %v", ws.path, err)
		return
	}
	ws.present(snap)
}

func (ws *WatchSession) present(snap *model.Snapshot) {
	active := ws.detector.Detect(ws.prev, snap)
	frame := assembleFrame(ws.topo, ws.layout, snap, active, ws.frames,
		fmt.Sprintf("Update %d", ws.frames), ws.cfg)

	if err := ws.renderer.RenderFrame(frame); err != nil {
		util.LogWarnf("Render failed for update %d: %v", ws.frames, err)
	}
	ws.prev = snap
	ws.frames++
}
