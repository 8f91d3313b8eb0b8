package playback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/sequence"
	"spikeplay/internal/core/spatial"
	"spikeplay/internal/core/topology"
	"spikeplay/internal/data/parser"
	"spikeplay/internal/data/scanner"
	"spikeplay/internal/testing/fixtures"
)

// recordingRenderer captures frames and optionally fails on demand.
type recordingRenderer struct {
	frames  []*model.RenderFrame
	setups  int
	failNow bool
}

func (r *recordingRenderer) Setup(*topology.Topology, spatial.Layout) error {
	r.setups++
	return nil
}

func (r *recordingRenderer) RenderFrame(frame *model.RenderFrame) error {
	if r.failNow {
		return errors.New("render broke")
	}
	r.frames = append(r.frames, frame)
	return nil
}

func (r *recordingRenderer) Close() error { return nil }

// threeFrameSequence builds frames where neuron 0 spikes on frame 1 and
// neuron 1's potential jumps on frame 2 while 0 was spiking.
func threeFrameSequence(t *testing.T) *sequence.FrameSequence {
	t.Helper()
	gen := fixtures.NewGenerator(t.TempDir())
	first, err := gen.WriteStepFrames("net", [][]fixtures.Neuron{
		fixtures.FeedForward([3]float64{0.1, 0.0, 0.0}, [3]bool{false, false, false}),
		fixtures.FeedForward([3]float64{0.9, 0.0, 0.0}, [3]bool{true, false, false}),
		fixtures.FeedForward([3]float64{0.2, 0.5, 0.0}, [3]bool{false, false, false}),
	})
	require.NoError(t, err)

	frames, err := scanner.NewFrameScanner("").Discover(first)
	require.NoError(t, err)
	seq, err := sequence.NewBuilder(parser.NewParser(2)).Build(frames)
	require.NoError(t, err)
	return seq
}

func loadedController(t *testing.T, cfg Config) (*Controller, *recordingRenderer) {
	t.Helper()
	renderer := &recordingRenderer{}
	c, err := NewController(cfg, renderer)
	require.NoError(t, err)
	require.NoError(t, c.Load(threeFrameSequence(t)))
	return c, renderer
}

func TestControllerStateMachine(t *testing.T) {
	renderer := &recordingRenderer{}
	c, err := NewController(DefaultConfig(), renderer)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, c.State())

	require.Error(t, c.Start(), "cannot start from idle")
	_, err = c.Advance()
	assert.ErrorIs(t, err, ErrNotPlaying)

	require.NoError(t, c.Load(threeFrameSequence(t)))
	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, 1, renderer.setups)

	require.NoError(t, c.Start())
	assert.Equal(t, StatePlaying, c.State())
	require.Error(t, c.Start(), "cannot start twice")

	c.Stop()
	assert.Equal(t, StateReady, c.State())
	assert.Zero(t, c.Cursor(), "stop rewinds")
}

func TestAdvancePresentsFramesInOrder(t *testing.T) {
	c, renderer := loadedController(t, DefaultConfig())
	require.NoError(t, c.Start())

	for i := 0; i < 3; i++ {
		frame, err := c.Advance()
		require.NoError(t, err)
		assert.Equal(t, i, frame.Index)
	}
	require.Len(t, renderer.frames, 3)
	assert.Equal(t, "Step 0", renderer.frames[0].Label)
	assert.Equal(t, "Step 2", renderer.frames[2].Label)
}

func TestFirstFrameHasNoActivity(t *testing.T) {
	c, renderer := loadedController(t, DefaultConfig())
	require.NoError(t, c.Start())

	_, err := c.Advance()
	require.NoError(t, err)
	for _, e := range renderer.frames[0].Edges {
		assert.Equal(t, model.EdgeInactive, e.Category)
	}
}

func TestRisingEdgeMarksOutgoingActive(t *testing.T) {
	c, renderer := loadedController(t, DefaultConfig())
	require.NoError(t, c.Start())

	_, err := c.Advance() // frame 0
	require.NoError(t, err)
	_, err = c.Advance() // frame 1: neuron 0 spikes
	require.NoError(t, err)

	frame := renderer.frames[1]
	var active []model.RenderEdge
	for _, e := range frame.Edges {
		if e.Category == model.EdgeActive {
			active = append(active, e)
		}
	}
	require.Len(t, active, 1)
	assert.Equal(t, 0, active[0].From)
	assert.Equal(t, 1, active[0].To)
	assert.Equal(t, 1, c.Counts()[model.EdgeKey{From: 0, To: 1}])
}

func TestPotentialJumpMarksIncomingActive(t *testing.T) {
	c, renderer := loadedController(t, DefaultConfig())
	require.NoError(t, c.Start())

	for i := 0; i < 3; i++ {
		_, err := c.Advance()
		require.NoError(t, err)
	}

	// Frame 2: neuron 1 jumped 0.0 -> 0.5 while 0 spiked on frame 1.
	frame := renderer.frames[2]
	found := false
	for _, e := range frame.Edges {
		if e.From == 0 && e.To == 1 {
			assert.Equal(t, model.EdgeActive, e.Category)
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoopWrapSeesNoPrevious(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loop = true
	c, renderer := loadedController(t, cfg)
	require.NoError(t, c.Start())

	for i := 0; i < 4; i++ { // 0 1 2 then wrap to 0
		_, err := c.Advance()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, renderer.frames[3].Index)
	for _, e := range renderer.frames[3].Edges {
		assert.Equal(t, model.EdgeInactive, e.Category, "wrap frame diffs against nothing")
	}
}

func TestOneShotTerminalHold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loop = false
	c, renderer := loadedController(t, cfg)
	require.NoError(t, c.Start())

	for i := 0; i < 3; i++ {
		_, err := c.Advance()
		require.NoError(t, err)
	}
	assert.True(t, c.AtEnd())
	countsAtEnd := c.Counts()
	rendered := len(renderer.frames)

	// Ticks past the end are idempotent: same frame back, nothing rendered,
	// counters frozen.
	last, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, 2, last.Index)
	again, err := c.Advance()
	require.NoError(t, err)
	assert.Same(t, last, again)
	assert.Len(t, renderer.frames, rendered)
	assert.Equal(t, countsAtEnd, c.Counts())
}

func TestRenderFailureHoldsPriorFrame(t *testing.T) {
	c, renderer := loadedController(t, DefaultConfig())
	require.NoError(t, c.Start())

	first, err := c.Advance()
	require.NoError(t, err)

	renderer.failNow = true
	held, err := c.Advance()
	require.NoError(t, err, "a corrupt tick must not stop playback")
	assert.Same(t, first, held)
	assert.Equal(t, StatePlaying, c.State())

	// Playback moved on despite the failure.
	renderer.failNow = false
	next, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, 2, next.Index)
}

func TestExportAllRendersEveryFrame(t *testing.T) {
	c, renderer := loadedController(t, DefaultConfig())

	require.NoError(t, c.ExportAll())
	require.Len(t, renderer.frames, 3)
	for i, frame := range renderer.frames {
		assert.Equal(t, i, frame.Index)
	}
}

func TestExportAllAbortsOnRenderError(t *testing.T) {
	c, renderer := loadedController(t, DefaultConfig())
	renderer.failNow = true

	err := c.ExportAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporting frame 0")
}

func TestExportRequiresReadyState(t *testing.T) {
	c, _ := loadedController(t, DefaultConfig())
	require.NoError(t, c.Start())

	err := c.ExportAll()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestNodeDescriptorFollowsSpikeState(t *testing.T) {
	cfg := DefaultConfig()
	c, renderer := loadedController(t, cfg)
	require.NoError(t, c.Start())

	_, err := c.Advance()
	require.NoError(t, err)
	_, err = c.Advance()
	require.NoError(t, err)

	// Frame 1: neuron 0 spiked with potential 0.9.
	frame := renderer.frames[1]
	var spiked, output *model.RenderNode
	for i := range frame.Nodes {
		switch frame.Nodes[i].ID {
		case 0:
			spiked = &frame.Nodes[i]
		case 2:
			output = &frame.Nodes[i]
		}
	}
	require.NotNil(t, spiked)
	assert.Equal(t, model.NodeSpiked, spiked.Category)
	assert.Equal(t, 1.5*cfg.NodeScale, spiked.Size)
	assert.Equal(t, 0.9, spiked.Intensity)

	require.NotNil(t, output)
	assert.Equal(t, model.RoleOutput, output.Role)
	assert.Equal(t, "D0:0", output.Label, "output nodes carry digit labels")
	assert.Equal(t, (0.5+0.0)*cfg.NodeScale, output.Size)
}

func TestIntensityClampsToUnitRange(t *testing.T) {
	gen := fixtures.NewGenerator(t.TempDir())
	first, err := gen.WriteStepFrames("hot", [][]fixtures.Neuron{
		fixtures.FeedForward([3]float64{2.5, -0.4, 0.3}, [3]bool{false, false, false}),
	})
	require.NoError(t, err)
	seq, err := LoadSequence(first, "", 1)
	require.NoError(t, err)

	renderer := &recordingRenderer{}
	c, err := NewController(DefaultConfig(), renderer)
	require.NoError(t, err)
	require.NoError(t, c.Load(seq))
	require.NoError(t, c.Start())

	_, err = c.Advance()
	require.NoError(t, err)
	frame := renderer.frames[0]
	for _, n := range frame.Nodes {
		assert.GreaterOrEqual(t, n.Intensity, 0.0)
		assert.LessOrEqual(t, n.Intensity, 1.0)
	}
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "helix"
	renderer := &recordingRenderer{}
	c, err := NewController(cfg, renderer)
	require.NoError(t, err)

	err = c.Load(threeFrameSequence(t))
	assert.ErrorIs(t, err, spatial.ErrUnknownLayout)
	assert.Equal(t, StateIdle, c.State())
}

func TestEdgeWidthScalesWithWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EdgeScale = 4.0
	c, renderer := loadedController(t, cfg)
	require.NoError(t, c.Start())

	_, err := c.Advance()
	require.NoError(t, err)
	for _, e := range renderer.frames[0].Edges {
		assert.Equal(t, e.Weight*4.0, e.Width)
	}
}
