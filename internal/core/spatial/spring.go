package spatial

import (
	"math"
	"math/rand"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/topology"
)

// minSeparation keeps the force terms finite when two nodes coincide.
const minSeparation = 0.01

// springStrategy runs a Fruchterman-Reingold force simulation in 2D with a
// fixed iteration budget and a seeded initial placement, then recenters and
// rescales the result to the unit box. Depth encodes the structural role.
// There is no convergence check: the budget bounds the work and the
// linearly cooling temperature keeps displacements from diverging.
type springStrategy struct{}

func (springStrategy) Name() string { return "spring" }

func (springStrategy) Compute(topo *topology.Topology, params Params) Layout {
	ids := topo.NodeIDs()
	layout := make(Layout, len(ids))
	n := len(ids)
	if n == 0 {
		return layout
	}

	rng := rand.New(rand.NewSource(params.SpringSeed))
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range ids {
		xs[i] = rng.Float64()
		ys[i] = rng.Float64()
	}

	if n == 1 {
		layout[ids[0]] = model.Position{X: 0, Y: 0, Z: roleDepth(topo.Role(ids[0]))}
		return layout
	}

	index := make(map[int]int, n)
	for i, id := range ids {
		index[id] = i
	}

	type springEdge struct {
		a, b   int
		weight float64
	}
	edges := make([]springEdge, 0, topo.EdgeCount())
	for _, e := range topo.Edges() {
		edges = append(edges, springEdge{a: index[e.Source], b: index[e.Target], weight: e.Weight})
	}

	k := params.SpringSpacing
	temp := 0.1
	cool := temp / float64(params.SpringIterations+1)

	dispX := make([]float64, n)
	dispY := make([]float64, n)

	for iter := 0; iter < params.SpringIterations; iter++ {
		for i := range dispX {
			dispX[i] = 0
			dispY[i] = 0
		}

		// Pairwise repulsion.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := xs[i] - xs[j]
				dy := ys[i] - ys[j]
				dist := math.Hypot(dx, dy)
				if dist < minSeparation {
					dist = minSeparation
				}
				force := k * k / dist
				dispX[i] += dx / dist * force
				dispY[i] += dy / dist * force
				dispX[j] -= dx / dist * force
				dispY[j] -= dy / dist * force
			}
		}

		// Attraction along edges, scaled by synaptic weight.
		for _, e := range edges {
			dx := xs[e.a] - xs[e.b]
			dy := ys[e.a] - ys[e.b]
			dist := math.Hypot(dx, dy)
			if dist < minSeparation {
				dist = minSeparation
			}
			force := dist * dist / k * e.weight
			dispX[e.a] -= dx / dist * force
			dispY[e.a] -= dy / dist * force
			dispX[e.b] += dx / dist * force
			dispY[e.b] += dy / dist * force
		}

		// Apply displacements capped by the current temperature.
		for i := 0; i < n; i++ {
			d := math.Hypot(dispX[i], dispY[i])
			if d > 0 {
				step := math.Min(d, temp)
				xs[i] += dispX[i] / d * step
				ys[i] += dispY[i] / d * step
			}
		}
		temp -= cool
	}

	recenter(xs, ys)

	for i, id := range ids {
		layout[id] = model.Position{X: xs[i], Y: ys[i], Z: roleDepth(topo.Role(id))}
	}
	return layout
}

// recenter shifts positions to a zero mean and scales the largest absolute
// coordinate to 1, so spring layouts occupy a predictable extent.
func recenter(xs, ys []float64) {
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(len(xs))
	meanY /= float64(len(ys))

	var maxAbs float64
	for i := range xs {
		xs[i] -= meanX
		ys[i] -= meanY
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
	}
	if maxAbs == 0 {
		return
	}
	for i := range xs {
		xs[i] /= maxAbs
		ys[i] /= maxAbs
	}
}
