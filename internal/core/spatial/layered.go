package spatial

import (
	"math"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/topology"
)

// layeredStrategy places the three structural roles on separate depth
// planes: inputs on a grid, hidden neurons on a ring, outputs on a line.
type layeredStrategy struct{}

func (layeredStrategy) Name() string { return "layered" }

func (layeredStrategy) Compute(topo *topology.Topology, _ Params) Layout {
	layout := make(Layout, topo.NodeCount())

	for i, id := range topo.ByRole(model.RoleInput) {
		col := i % inputGridColumns
		row := i / inputGridColumns
		layout[id] = model.Position{
			X: inputGridOriginX + float64(col)*inputGridSpacing,
			Y: inputGridOriginY + float64(row)*inputGridSpacing,
			Z: depthInput,
		}
	}

	hidden := topo.ByRole(model.RoleHidden)
	for i, id := range hidden {
		angle := 2 * math.Pi * float64(i) / float64(len(hidden))
		layout[id] = model.Position{
			X: hiddenRingRadius * math.Cos(angle),
			Y: hiddenRingRadius * math.Sin(angle),
			Z: depthHidden,
		}
	}

	for i, id := range topo.ByRole(model.RoleOutput) {
		layout[id] = model.Position{
			X: outputLineOriginX + float64(i)*outputLineSpacing,
			Y: outputLineY,
			Z: depthOutput,
		}
	}

	return layout
}
