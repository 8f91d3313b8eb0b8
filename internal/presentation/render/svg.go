package render

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/spatial"
	"spikeplay/internal/core/topology"
	"spikeplay/internal/util"
)

// Visual constants for SVG output.
const (
	svgUnitScale   = 120.0 // layout units to pixels
	svgPadding     = 60.0
	svgMinSize     = 200.0
	svgNodeRadius  = 12.0
	svgSizeDivisor = 25.0 // RenderNode.Size to extra radius
	svgFontSize    = 11.0

	colorSpiked     = "#d62728"
	colorActiveEdge = "#ff8c00"
	colorIdleEdge   = "#b0b0b0"
	colorLabel      = "#444444"
)

// SVGRenderer writes one SVG file per frame under a directory, plus a
// manifest listing every file, for batch export.
type SVGRenderer struct {
	dir  string
	opts Options

	minX, minY    float64
	width, height float64
	written       []manifestEntry
}

type manifestEntry struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	File  string `json:"file"`
}

// NewSVGRenderer creates a renderer exporting into dir.
func NewSVGRenderer(dir string, opts Options) *SVGRenderer {
	return &SVGRenderer{dir: dir, opts: opts}
}

// Setup creates the export directory and fixes the viewport from the layout
// bounds so every frame shares identical coordinates.
func (r *SVGRenderer) Setup(topo *topology.Topology, layout spatial.Layout) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("creating export directory %s: %w", r.dir, err)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pos := range layout {
		minX = math.Min(minX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxX = math.Max(maxX, pos.X)
		maxY = math.Max(maxY, pos.Y)
	}
	if len(layout) == 0 {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	r.minX = minX*svgUnitScale - svgPadding
	r.minY = minY*svgUnitScale - svgPadding
	r.width = (maxX-minX)*svgUnitScale + 2*svgPadding
	r.height = (maxY-minY)*svgUnitScale + 2*svgPadding
	if r.width < svgMinSize {
		r.width = svgMinSize
	}
	if r.height < svgMinSize {
		r.height = svgMinSize
	}
	r.written = r.written[:0]
	return nil
}

// RenderFrame writes frame_<index>.svg.
func (r *SVGRenderer) RenderFrame(frame *model.RenderFrame) error {
	name := fmt.Sprintf("frame_%04d.svg", frame.Index)
	path := filepath.Join(r.dir, name)

	if err := os.WriteFile(path, r.frameSVG(frame), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	r.written = append(r.written, manifestEntry{Index: frame.Index, Label: frame.Label, File: name})
	util.LogDebugf("Exported %s", path)
	return nil
}

// Close writes the manifest naming every exported frame in order.
func (r *SVGRenderer) Close() error {
	if len(r.written) == 0 {
		return nil
	}
	data, err := sonic.MarshalIndent(r.written, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(r.dir, "manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FrameCount returns the number of frames written so far.
func (r *SVGRenderer) FrameCount() int {
	return len(r.written)
}

func (r *SVGRenderer) frameSVG(frame *model.RenderFrame) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`,
		r.minX, r.minY, r.width, r.height, r.width, r.height))
	buf.WriteString("\n")

	title := frame.Label
	if title == "" {
		title = fmt.Sprintf("Frame %d", frame.Index)
	}
	buf.WriteString(fmt.Sprintf(
		`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`,
		r.minX+10, r.minY+20, svgFontSize+3, colorLabel, escapeXML(title)))
	buf.WriteString("\n")

	// Inactive edges below active ones, nodes on top.
	for _, pass := range []model.EdgeCategory{model.EdgeInactive, model.EdgeActive} {
		for _, edge := range frame.Edges {
			if edge.Category != pass {
				continue
			}
			stroke, width, opacity := colorIdleEdge, 0.5+edge.Width, 0.4
			if edge.Category == model.EdgeActive {
				stroke, width, opacity = colorActiveEdge, 1.5+edge.Width, 0.9
			}
			buf.WriteString(fmt.Sprintf(
				`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" stroke-opacity="%.1f"/>`,
				edge.FromPos.X*svgUnitScale, edge.FromPos.Y*svgUnitScale,
				edge.ToPos.X*svgUnitScale, edge.ToPos.Y*svgUnitScale,
				stroke, width, opacity))
			buf.WriteString("\n")
		}
	}

	for _, node := range frame.Nodes {
		fill := intensityHex(node.Intensity)
		if node.Category == model.NodeSpiked {
			fill = colorSpiked
		}
		radius := svgNodeRadius + node.Size/svgSizeDivisor
		cx := node.Position.X * svgUnitScale
		cy := node.Position.Y * svgUnitScale
		buf.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#333333" stroke-width="1"/>`,
			cx, cy, radius, fill))
		buf.WriteString("\n")
		if r.opts.ShowLabels && node.Label != "" {
			buf.WriteString(fmt.Sprintf(
				`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`,
				cx+radius+3, cy+4, svgFontSize, colorLabel, escapeXML(node.Label)))
			buf.WriteString("\n")
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// intensityHex maps a [0,1] intensity onto a dark-blue-to-yellow gradient.
func intensityHex(intensity float64) string {
	t := model.Clamp01(intensity)
	// Two-segment interpolation through teal keeps mid intensities readable.
	var r0, g0, b0, r1, g1, b1 float64
	if t < 0.5 {
		t = t * 2
		r0, g0, b0 = 0x26, 0x32, 0x8c // dark blue
		r1, g1, b1 = 0x21, 0x91, 0x8c // teal
	} else {
		t = (t - 0.5) * 2
		r0, g0, b0 = 0x21, 0x91, 0x8c // teal
		r1, g1, b1 = 0xfd, 0xe7, 0x25 // yellow
	}
	lerp := func(a, b float64) int { return int(a + (b-a)*t) }
	return fmt.Sprintf("#%02x%02x%02x", lerp(r0, r1), lerp(g0, g1), lerp(b0, b1))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
