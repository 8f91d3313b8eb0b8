// Package playback drives frame advancement over a loaded sequence and
// assembles the per-tick render descriptors.
package playback

import (
	"errors"
	"fmt"

	"spikeplay/internal/core/activity"
	"spikeplay/internal/core/model"
	"spikeplay/internal/core/sequence"
	"spikeplay/internal/core/spatial"
	"spikeplay/internal/core/topology"
	"spikeplay/internal/data/parser"
	"spikeplay/internal/data/scanner"
	"spikeplay/internal/presentation/render"
	"spikeplay/internal/util"
)

// State is the controller's lifecycle position.
type State int

const (
	// StateIdle means no sequence is loaded.
	StateIdle State = iota
	// StateReady means sequence, topology and layout are in place.
	StateReady
	// StatePlaying means the cursor advances on ticks.
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	default:
		return "idle"
	}
}

var (
	// ErrNotReady reports an operation requiring a loaded sequence.
	ErrNotReady = errors.New("no frame sequence loaded")
	// ErrNotPlaying reports an Advance outside the Playing state.
	ErrNotPlaying = errors.New("playback not started")
)

// Controller owns a playback session: one sequence, one topology, one
// layout, one detector. All methods are called from a single goroutine; the
// caller serializes ticks.
type Controller struct {
	cfg      Config
	renderer render.FrameRenderer

	state    State
	seq      *sequence.FrameSequence
	topo     *topology.Topology
	layout   spatial.Layout
	detector *activity.Detector

	cursor int
	// atEnd marks the terminal hold of one-shot playback: the last frame
	// stays presented and further advances are no-ops.
	atEnd bool
	held  *model.RenderFrame
}

// NewController creates a controller in the Idle state.
func NewController(cfg Config, renderer render.FrameRenderer) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid playback config: %w", err)
	}
	return &Controller{cfg: cfg, renderer: renderer}, nil
}

// LoadSequence discovers and loads the naming family of the reference file,
// for callers that start from a path instead of a built sequence.
func LoadSequence(referenceFile, searchRoot string, concurrency int) (*sequence.FrameSequence, error) {
	frames, err := scanner.NewFrameScanner(searchRoot).Discover(referenceFile)
	if err != nil {
		return nil, err
	}
	return sequence.NewBuilder(parser.NewParser(concurrency)).Build(frames)
}

// Load moves Idle -> Ready: builds the topology from the first snapshot,
// computes the layout, resets the detector and cursor, and hands the static
// scene to the renderer.
func (c *Controller) Load(seq *sequence.FrameSequence) error {
	topo := topology.Build(seq.First())
	layout, err := spatial.Compute(topo, c.cfg.Strategy, spatial.DefaultParams())
	if err != nil {
		return err
	}
	if err := c.renderer.Setup(topo, layout); err != nil {
		return fmt.Errorf("renderer setup: %w", err)
	}

	c.seq = seq
	c.topo = topo
	c.layout = layout
	c.detector = activity.NewDetector(topo)
	c.cursor = 0
	c.atEnd = false
	c.held = nil
	c.state = StateReady

	util.LogInfof("Session ready: %d frames, %d nodes, %d edges, %s layout",
		seq.Len(), topo.NodeCount(), topo.EdgeCount(), c.cfg.Strategy)
	return nil
}

// Start moves Ready -> Playing.
func (c *Controller) Start() error {
	if c.state != StateReady {
		return fmt.Errorf("%w: cannot start from %s", ErrNotReady, c.state)
	}
	c.state = StatePlaying
	return nil
}

// Stop moves Playing -> Ready and rewinds so a later Start replays from the
// first frame. Cumulative activity counts survive; they reset only on Load.
func (c *Controller) Stop() {
	if c.state != StatePlaying {
		return
	}
	c.state = StateReady
	c.cursor = 0
	c.atEnd = false
	c.held = nil
}

// Advance presents the frame at the cursor and moves the cursor. At the
// terminal hold of a one-shot run it returns the held frame without
// re-running detection, so repeated ticks neither inflate the counters nor
// redraw.
func (c *Controller) Advance() (*model.RenderFrame, error) {
	if c.state != StatePlaying {
		return nil, ErrNotPlaying
	}
	if c.atEnd {
		return c.held, nil
	}

	frame := c.presentFrame(c.cursor)

	if err := c.renderer.RenderFrame(frame); err != nil {
		// A corrupt tick must not tear down playback; keep the prior
		// frame on screen and move on.
		util.LogWarnf("Render failed for frame %d: %v", frame.Index, err)
		c.stepCursor()
		return c.held, nil
	}

	c.held = frame
	c.stepCursor()
	return frame, nil
}

// AtEnd reports whether one-shot playback has reached its terminal hold.
func (c *Controller) AtEnd() bool {
	return c.atEnd
}

// State returns the controller state.
func (c *Controller) State() State {
	return c.state
}

// Cursor returns the index of the next frame to present.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Topology returns the session topology (nil while Idle).
func (c *Controller) Topology() *topology.Topology {
	return c.topo
}

// Summary returns the cumulative activity statistics.
func (c *Controller) Summary(topK int) activity.Stats {
	if c.detector == nil {
		return activity.Stats{}
	}
	return c.detector.Summary(topK)
}

// Counts returns a copy of the cumulative per-edge activation counts.
func (c *Controller) Counts() map[model.EdgeKey]int {
	if c.detector == nil {
		return map[model.EdgeKey]int{}
	}
	return c.detector.Counts()
}

// ExportAll renders every frame in order from the Ready state. Unlike live
// ticks a renderer failure aborts: a batch export with holes is worthless.
func (c *Controller) ExportAll() error {
	if c.state != StateReady {
		return fmt.Errorf("%w: cannot export from %s", ErrNotReady, c.state)
	}
	for i := 0; i < c.seq.Len(); i++ {
		frame := c.presentFrame(i)
		if err := c.renderer.RenderFrame(frame); err != nil {
			return fmt.Errorf("exporting frame %d: %w", i, err)
		}
	}
	return nil
}

// presentFrame runs detection for the (idx-1, idx) pair and assembles the
// descriptor. Frame 0 has no predecessor, including right after a loop wrap.
func (c *Controller) presentFrame(idx int) *model.RenderFrame {
	var prev *model.Snapshot
	if idx > 0 {
		prev = c.seq.Frame(idx - 1).Snapshot
	}
	curr := c.seq.Frame(idx)

	active := c.detector.Detect(prev, curr.Snapshot)
	return assembleFrame(c.topo, c.layout, curr.Snapshot, active, idx, curr.Meta.Label(), c.cfg)
}

func (c *Controller) stepCursor() {
	if c.cfg.Loop {
		c.cursor = (c.cursor + 1) % c.seq.Len()
		return
	}
	if c.cursor >= c.seq.Len()-1 {
		c.atEnd = true
		return
	}
	c.cursor++
}

// assembleFrame builds the transient per-tick descriptor. Neuron ids absent
// from the topology or layout are skipped; playback stays soft against
// upstream irregularities.
func assembleFrame(topo *topology.Topology, layout spatial.Layout, snap *model.Snapshot,
	active activity.ActivitySet, idx int, label string, cfg Config) *model.RenderFrame {

	frame := &model.RenderFrame{
		Index: idx,
		Label: label,
		Nodes: make([]model.RenderNode, 0, len(snap.Neurons)),
		Edges: make([]model.RenderEdge, 0, topo.EdgeCount()),
	}

	for _, n := range snap.Neurons {
		pos, placed := layout[n.ID]
		if !topo.HasNode(n.ID) || !placed {
			util.LogDebugf("Skipping unplaced neuron %d in frame %d", n.ID, idx)
			continue
		}

		intensity := model.Clamp01(n.Potential)
		category := model.NodeNormal
		size := (0.5 + intensity) * cfg.NodeScale
		if n.Spiked {
			category = model.NodeSpiked
			size = 1.5 * cfg.NodeScale
		}

		var nodeLabel string
		if cfg.ShowLabels {
			if d := topo.OutputIndex(n.ID); d >= 0 {
				nodeLabel = fmt.Sprintf("D%d:%d", d, n.SpikeCount)
			}
		}

		frame.Nodes = append(frame.Nodes, model.RenderNode{
			ID:         n.ID,
			Position:   pos,
			Category:   category,
			Intensity:  intensity,
			Size:       size,
			Role:       topo.Role(n.ID),
			SpikeCount: n.SpikeCount,
			Label:      nodeLabel,
		})
	}

	for _, e := range topo.Edges() {
		category := model.EdgeInactive
		if active.Contains(e.Source, e.Target) {
			category = model.EdgeActive
		}
		frame.Edges = append(frame.Edges, model.RenderEdge{
			From:     e.Source,
			To:       e.Target,
			FromPos:  layout[e.Source],
			ToPos:    layout[e.Target],
			Category: category,
			Weight:   e.Weight,
			Width:    e.Weight * cfg.EdgeScale,
		})
	}

	return frame
}
