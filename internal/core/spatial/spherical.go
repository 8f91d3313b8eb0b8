package spatial

import (
	"math"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/topology"
)

// sphericalStrategy winds the node sequence around a sphere: the polar
// angle sweeps 0..π and the azimuthal angle 0..2π across the node index,
// both endpoint inclusive. A single node sits at the pole.
type sphericalStrategy struct{}

func (sphericalStrategy) Name() string { return "spherical" }

func (sphericalStrategy) Compute(topo *topology.Topology, _ Params) Layout {
	ids := topo.NodeIDs()
	layout := make(Layout, len(ids))

	n := len(ids)
	for i, id := range ids {
		var phi, theta float64
		if n > 1 {
			phi = math.Pi * float64(i) / float64(n-1)
			theta = 2 * math.Pi * float64(i) / float64(n-1)
		}
		layout[id] = model.Position{
			X: sphereRadius * math.Sin(phi) * math.Cos(theta),
			Y: sphereRadius * math.Sin(phi) * math.Sin(theta),
			Z: sphereRadius * math.Cos(phi),
		}
	}

	return layout
}
