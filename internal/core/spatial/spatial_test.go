package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/topology"
)

// chainTopology builds A(0) -> B(1) -> C(2): one input, one hidden, one
// output.
func chainTopology() *topology.Topology {
	return topology.Build(&model.Snapshot{Neurons: []model.NeuronState{
		{ID: 0, Outgoing: []model.Connection{{Target: 1, Weight: 0.4}}},
		{ID: 1, Outgoing: []model.Connection{{Target: 2, Weight: 0.5}}},
		{ID: 2},
	}})
}

func TestLayeredChainPlacement(t *testing.T) {
	layout, err := Compute(chainTopology(), "layered", DefaultParams())
	require.NoError(t, err)
	require.Len(t, layout, 3)

	// Input on the grid origin at depth 0.
	assert.Equal(t, model.Position{X: -2.0, Y: -1.0, Z: 0}, layout[0])
	// Sole hidden node at ring angle 0, depth 1.
	assert.InDelta(t, 1.5, layout[1].X, 1e-12)
	assert.InDelta(t, 0.0, layout[1].Y, 1e-12)
	assert.Equal(t, 1.0, layout[1].Z)
	// Output at line start, depth 2.
	assert.Equal(t, model.Position{X: -1.5, Y: 2.0, Z: 2}, layout[2])
}

func TestLayeredInputGridWraps(t *testing.T) {
	// Nine inputs all feeding one output: rows of seven.
	neurons := make([]model.NeuronState, 0, 10)
	for i := 0; i < 9; i++ {
		neurons = append(neurons, model.NeuronState{
			ID:       i,
			Outgoing: []model.Connection{{Target: 9, Weight: 0.1}},
		})
	}
	neurons = append(neurons, model.NeuronState{ID: 9})
	topo := topology.Build(&model.Snapshot{Neurons: neurons})

	layout, err := Compute(topo, "layered", DefaultParams())
	require.NoError(t, err)

	// Eighth input starts the second row.
	assert.InDelta(t, -2.0, layout[7].X, 1e-12)
	assert.InDelta(t, -0.4, layout[7].Y, 1e-12)
	// Seventh input ends the first row.
	assert.InDelta(t, -2.0+6*0.6, layout[6].X, 1e-12)
	assert.InDelta(t, -1.0, layout[6].Y, 1e-12)
}

func TestLayeredIsPure(t *testing.T) {
	topo := chainTopology()
	first, err := Compute(topo, "layered", DefaultParams())
	require.NoError(t, err)
	second, err := Compute(topo, "layered", DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCircularEvenSpacing(t *testing.T) {
	// Ring of four: 0 -> 1 -> 2 -> 3 -> 0, all hidden.
	topo := topology.Build(&model.Snapshot{Neurons: []model.NeuronState{
		{ID: 0, Outgoing: []model.Connection{{Target: 1, Weight: 0.2}}},
		{ID: 1, Outgoing: []model.Connection{{Target: 2, Weight: 0.2}}},
		{ID: 2, Outgoing: []model.Connection{{Target: 3, Weight: 0.2}}},
		{ID: 3, Outgoing: []model.Connection{{Target: 0, Weight: 0.2}}},
	}})

	layout, err := Compute(topo, "circular", DefaultParams())
	require.NoError(t, err)

	// Angles are endpoint exclusive: 0, π/2, π, 3π/2.
	assert.InDelta(t, 2.0, layout[0].X, 1e-12)
	assert.InDelta(t, 0.0, layout[0].Y, 1e-12)
	assert.InDelta(t, 0.0, layout[1].X, 1e-12)
	assert.InDelta(t, 2.0, layout[1].Y, 1e-12)
	assert.InDelta(t, -2.0, layout[2].X, 1e-12)
	assert.InDelta(t, 0.0, layout[3].X, 1e-12)
	assert.InDelta(t, -2.0, layout[3].Y, 1e-12)

	// Every node in the ring is hidden, so depth 1 throughout.
	for id, pos := range layout {
		assert.Equalf(t, 1.0, pos.Z, "node %d", id)
	}
}

func TestCircularDepthFollowsRole(t *testing.T) {
	layout, err := Compute(chainTopology(), "circular", DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 0.0, layout[0].Z)
	assert.Equal(t, 1.0, layout[1].Z)
	assert.Equal(t, 2.0, layout[2].Z)
}

func TestSphericalSingleNodeAtPole(t *testing.T) {
	topo := topology.Build(&model.Snapshot{Neurons: []model.NeuronState{{ID: 5}}})

	layout, err := Compute(topo, "spherical", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, model.Position{X: 0, Y: 0, Z: 2.0}, layout[5])
}

func TestSphericalEndpointsInclusive(t *testing.T) {
	layout, err := Compute(chainTopology(), "spherical", DefaultParams())
	require.NoError(t, err)

	// First node at φ=0 (north pole), last at φ=π (south pole).
	assert.InDelta(t, 2.0, layout[0].Z, 1e-12)
	assert.InDelta(t, -2.0, layout[2].Z, 1e-12)

	// All nodes on the sphere surface.
	for id, pos := range layout {
		r := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
		assert.InDeltaf(t, 2.0, r, 1e-9, "node %d", id)
	}
}

func TestSpringDeterministicForSeed(t *testing.T) {
	topo := chainTopology()

	first, err := Compute(topo, "spring", DefaultParams())
	require.NoError(t, err)
	second, err := Compute(topo, "spring", DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must reproduce positions exactly")
}

func TestSpringSeedChangesPlacement(t *testing.T) {
	topo := chainTopology()

	base, err := Compute(topo, "spring", DefaultParams())
	require.NoError(t, err)

	params := DefaultParams()
	params.SpringSeed = 7
	other, err := Compute(topo, "spring", params)
	require.NoError(t, err)

	assert.NotEqual(t, base, other)
}

func TestSpringBoundedAndRoleDepths(t *testing.T) {
	neurons := make([]model.NeuronState, 0, 12)
	for i := 0; i < 11; i++ {
		neurons = append(neurons, model.NeuronState{
			ID:       i,
			Outgoing: []model.Connection{{Target: i + 1, Weight: 0.3}},
		})
	}
	neurons = append(neurons, model.NeuronState{ID: 11})
	topo := topology.Build(&model.Snapshot{Neurons: neurons})

	layout, err := Compute(topo, "spring", DefaultParams())
	require.NoError(t, err)
	require.Len(t, layout, 12)

	for id, pos := range layout {
		assert.LessOrEqualf(t, math.Abs(pos.X), 1.0+1e-9, "node %d x", id)
		assert.LessOrEqualf(t, math.Abs(pos.Y), 1.0+1e-9, "node %d y", id)
		assert.False(t, math.IsNaN(pos.X) || math.IsNaN(pos.Y), "node %d finite", id)
	}
	assert.Equal(t, 0.0, layout[0].Z)
	assert.Equal(t, 1.0, layout[5].Z)
	assert.Equal(t, 2.0, layout[11].Z)
}

func TestSpringSingleNode(t *testing.T) {
	topo := topology.Build(&model.Snapshot{Neurons: []model.NeuronState{{ID: 0}}})

	layout, err := Compute(topo, "spring", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, model.Position{X: 0, Y: 0, Z: 0}, layout[0])
}

func TestUnknownStrategy(t *testing.T) {
	_, err := Compute(chainTopology(), "hexagonal", DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLayout)
	assert.Contains(t, err.Error(), "hexagonal")
	assert.Contains(t, err.Error(), "layered")
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"circular", "layered", "spherical", "spring"}, Names())
}
