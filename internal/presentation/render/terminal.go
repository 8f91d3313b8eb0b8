package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/spatial"
	"spikeplay/internal/core/topology"
	"spikeplay/internal/util"
)

const (
	minTermWidth     = 40
	fallbackWidth    = 100
	fallbackHeight   = 32
	headerRows       = 2  // frame label + blank line
	footerRows       = 2  // blank line + legend
	intensityRampLo  = 17 // 256-color cube, dark blue
	intensityRampLen = 6
)

// TerminalRenderer draws frames as a character grid on an ANSI terminal,
// using the alternate screen buffer so playback leaves the shell untouched.
// Positions are projected onto the XY plane; depth only affects node glyphs.
type TerminalRenderer struct {
	out  io.Writer
	opts Options

	// Fixed dimensions override terminal detection, for tests and piping.
	Width  int
	Height int

	topo      *topology.Topology
	layout    spatial.Layout
	minX      float64
	minY      float64
	spanX     float64
	spanY     float64
	inAlt     bool
	firstDraw bool
}

// NewTerminalRenderer creates a renderer writing to stdout.
func NewTerminalRenderer(opts Options) *TerminalRenderer {
	return &TerminalRenderer{out: os.Stdout, opts: opts}
}

// NewTerminalRendererTo creates a renderer writing to w with fixed
// dimensions and no alternate-screen switching.
func NewTerminalRendererTo(w io.Writer, width, height int, opts Options) *TerminalRenderer {
	return &TerminalRenderer{out: w, opts: opts, Width: width, Height: height}
}

// Setup stores the session layout and computes the projection bounds.
func (r *TerminalRenderer) Setup(topo *topology.Topology, layout spatial.Layout) error {
	r.topo = topo
	r.layout = layout
	r.firstDraw = true

	r.minX, r.minY = math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pos := range layout {
		r.minX = math.Min(r.minX, pos.X)
		r.minY = math.Min(r.minY, pos.Y)
		maxX = math.Max(maxX, pos.X)
		maxY = math.Max(maxY, pos.Y)
	}
	if len(layout) == 0 {
		r.minX, r.minY, maxX, maxY = 0, 0, 1, 1
	}
	r.spanX = maxX - r.minX
	r.spanY = maxY - r.minY
	// A degenerate span (single node or collinear layout) still projects.
	if r.spanX < 1e-9 {
		r.spanX = 1
	}
	if r.spanY < 1e-9 {
		r.spanY = 1
	}

	if r.out == os.Stdout {
		r.enterAltScreen()
	}
	return nil
}

// RenderFrame draws one frame. The grid is rebuilt from scratch each tick;
// the cursor-home rewrite keeps the screen flicker-free without clearing.
func (r *TerminalRenderer) RenderFrame(frame *model.RenderFrame) error {
	width, height := r.dimensions()
	gridW := width
	gridH := height - headerRows - footerRows
	if gridH < 4 {
		gridH = 4
	}

	cells := newCellGrid(gridW, gridH)

	// Edges first so nodes overwrite the crossing points.
	for _, edge := range frame.Edges {
		x0, y0 := r.project(edge.FromPos, gridW, gridH)
		x1, y1 := r.project(edge.ToPos, gridW, gridH)
		glyph, color := edgeGlyph(edge)
		drawLine(cells, x0, y0, x1, y1, glyph, color)
	}

	for _, node := range frame.Nodes {
		x, y := r.project(node.Position, gridW, gridH)
		glyph, color := nodeGlyph(node)
		cells.set(x, y, glyph, color)
		if r.opts.ShowLabels && node.Label != "" {
			cells.writeString(x+2, y, node.Label, util.ColorGray)
		}
	}

	var b strings.Builder
	if r.inAlt {
		if r.firstDraw {
			b.WriteString(util.ClearScreen)
			r.firstDraw = false
		}
		b.WriteString(util.MoveCursorHome)
	}

	title := frame.Label
	if title == "" {
		title = fmt.Sprintf("Frame %d", frame.Index)
	}
	active := 0
	for _, e := range frame.Edges {
		if e.Category == model.EdgeActive {
			active++
		}
	}
	b.WriteString(util.ColorBold + util.TruncateString(title, gridW) + util.ColorReset)
	b.WriteString(fmt.Sprintf("%s  frame %d, %d active edges%s\n\n",
		util.ColorGray, frame.Index, active, util.ColorReset))

	cells.render(&b)

	b.WriteString("\n" + util.ColorGray + "● spiked   ○ idle   ═ active edge   · connection" + util.ColorReset + "\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

// Close leaves the alternate screen.
func (r *TerminalRenderer) Close() error {
	r.exitAltScreen()
	return nil
}

func (r *TerminalRenderer) enterAltScreen() {
	if r.inAlt {
		return
	}
	fmt.Fprint(r.out, util.EnterAltScreen, util.ClearScreen, util.MoveCursorHome, util.HideCursor)
	r.inAlt = true
	r.firstDraw = true
}

func (r *TerminalRenderer) exitAltScreen() {
	if !r.inAlt {
		return
	}
	fmt.Fprint(r.out, util.ClearScreen, util.MoveCursorHome, util.ShowCursor, util.ExitAltScreen)
	r.inAlt = false
}

// dimensions returns the drawing area, preferring the fixed override, then
// the real terminal size, then the fallback.
func (r *TerminalRenderer) dimensions() (int, int) {
	if r.Width > 0 && r.Height > 0 {
		return r.Width, r.Height
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w < minTermWidth {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}

// project maps a layout position onto grid coordinates, leaving a one-cell
// margin so border nodes stay visible.
func (r *TerminalRenderer) project(pos model.Position, gridW, gridH int) (int, int) {
	fx := (pos.X - r.minX) / r.spanX
	fy := (pos.Y - r.minY) / r.spanY
	x := 1 + int(fx*float64(gridW-3)+0.5)
	// Terminal rows grow downward; flip Y so the layout reads naturally.
	y := 1 + int((1-fy)*float64(gridH-3)+0.5)
	return x, y
}

func nodeGlyph(node model.RenderNode) (rune, string) {
	if node.Category == model.NodeSpiked {
		return '●', util.ColorRed
	}
	return '○', intensityColor(node.Intensity)
}

func edgeGlyph(edge model.RenderEdge) (rune, string) {
	if edge.Category == model.EdgeActive {
		return '═', util.ColorOrange
	}
	return '·', util.ColorDim
}

// intensityColor maps a [0,1] intensity onto a short blue-to-yellow ramp in
// the 256-color cube.
func intensityColor(intensity float64) string {
	step := int(model.Clamp01(intensity) * float64(intensityRampLen-1))
	// 17, 23, 29, 35, 41, 47: blue rising through green toward yellow-green.
	return util.Color256(intensityRampLo + step*6)
}

// cellGrid is a character raster with one color per cell.
type cellGrid struct {
	w, h   int
	glyphs []rune
	colors []string
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h, glyphs: make([]rune, w*h), colors: make([]string, w*h)}
	for i := range g.glyphs {
		g.glyphs[i] = ' '
	}
	return g
}

func (g *cellGrid) set(x, y int, glyph rune, color string) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	i := y*g.w + x
	g.glyphs[i] = glyph
	g.colors[i] = color
}

func (g *cellGrid) writeString(x, y int, text string, color string) {
	for i, ch := range text {
		g.set(x+i, y, ch, color)
	}
}

func (g *cellGrid) render(b *strings.Builder) {
	for y := 0; y < g.h; y++ {
		last := ""
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			if g.colors[i] != last {
				if last != "" {
					b.WriteString(util.ColorReset)
				}
				if g.colors[i] != "" {
					b.WriteString(g.colors[i])
				}
				last = g.colors[i]
			}
			b.WriteRune(g.glyphs[i])
		}
		if last != "" {
			b.WriteString(util.ColorReset)
		}
		b.WriteString("\n")
	}
}

// drawLine rasterizes a straight segment with Bresenham stepping, skipping
// the exact endpoints so node glyphs stay clean.
func drawLine(g *cellGrid, x0, y0, x1, y1 int, glyph rune, color string) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if !(x == x0 && y == y0) && !(x == x1 && y == y1) {
			g.set(x, y, glyph, color)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
