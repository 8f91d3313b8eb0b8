package spatial

import (
	"math"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/topology"
)

// circularStrategy spreads all nodes evenly around one circle in the XY
// plane, with depth still encoding the structural role.
type circularStrategy struct{}

func (circularStrategy) Name() string { return "circular" }

func (circularStrategy) Compute(topo *topology.Topology, _ Params) Layout {
	ids := topo.NodeIDs()
	layout := make(Layout, len(ids))

	n := float64(len(ids))
	for i, id := range ids {
		angle := 2 * math.Pi * float64(i) / n
		layout[id] = model.Position{
			X: circleRadius * math.Cos(angle),
			Y: circleRadius * math.Sin(angle),
			Z: roleDepth(topo.Role(id)),
		}
	}

	return layout
}
