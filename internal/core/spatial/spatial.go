// Package spatial computes deterministic node placements for a network
// topology. Every strategy is a pure function of (topology, params): equal
// inputs give bit-identical layouts, so results are safe to cache for an
// entire playback session.
package spatial

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/topology"
	"spikeplay/internal/util"
)

// ErrUnknownLayout reports an unrecognized strategy name.
var ErrUnknownLayout = errors.New("unknown layout strategy")

// Layout maps node ids to positions.
type Layout map[int]model.Position

// Placement constants. These are part of the layout contract: frames
// rendered by different builds must place nodes identically.
const (
	inputGridColumns  = 7
	inputGridSpacing  = 0.6
	inputGridOriginX  = -2.0
	inputGridOriginY  = -1.0
	hiddenRingRadius  = 1.5
	outputLineSpacing = 0.3
	outputLineOriginX = -1.5
	outputLineY       = 2.0
	circleRadius      = 2.0
	sphereRadius      = 2.0

	depthInput  = 0.0
	depthHidden = 1.0
	depthOutput = 2.0
)

// Params tunes the strategies that take parameters. The zero value gets
// spring defaults filled in; the seed is honored as given.
type Params struct {
	SpringIterations int
	SpringSeed       int64
	SpringSpacing    float64
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{
		SpringIterations: 50,
		SpringSeed:       42,
		SpringSpacing:    2.0,
	}
}

func (p Params) withDefaults() Params {
	if p.SpringIterations <= 0 {
		p.SpringIterations = 50
	}
	if p.SpringSpacing <= 0 {
		p.SpringSpacing = 2.0
	}
	return p
}

// Strategy computes node positions for a topology.
type Strategy interface {
	Compute(topo *topology.Topology, params Params) Layout
	Name() string
}

var registry = map[string]Strategy{
	"layered":   layeredStrategy{},
	"circular":  circularStrategy{},
	"spring":    springStrategy{},
	"spherical": sphericalStrategy{},
}

// Names returns the available strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compute runs the named strategy over the topology.
func Compute(topo *topology.Topology, strategyName string, params Params) (Layout, error) {
	strategy, ok := registry[strategyName]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownLayout, strategyName, strings.Join(Names(), ", "))
	}

	util.LogDebugf("Computing %s layout for %d nodes", strategyName, topo.NodeCount())
	return strategy.Compute(topo, params.withDefaults()), nil
}

// roleDepth assigns the z coordinate used by the flat strategies.
func roleDepth(role model.NodeRole) float64 {
	switch role {
	case model.RoleInput:
		return depthInput
	case model.RoleOutput:
		return depthOutput
	default:
		return depthHidden
	}
}
