// Package formatter renders cumulative activity statistics as tables,
// summaries, JSON or CSV.
package formatter

import (
	"spikeplay/internal/core/activity"
	"spikeplay/internal/core/topology"
)

// EdgeRow is one edge of the activity report, enriched with the static
// synaptic weight so readers can relate traffic to connection strength.
type EdgeRow struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// Report is the formatter-facing view of a played session's activity.
type Report struct {
	Edges            []EdgeRow `json:"edges"`
	UniqueEdges      int       `json:"unique_edges"`
	TotalActivations int       `json:"total_activations"`
	Frames           int       `json:"frames"`
}

// BuildReport joins detector statistics with topology weights. Edges no
// longer present in the topology keep a zero weight; the count is what
// matters.
func BuildReport(stats activity.Stats, topo *topology.Topology, frames int) Report {
	weights := make(map[[2]int]float64)
	if topo != nil {
		for _, e := range topo.Edges() {
			weights[[2]int{e.Source, e.Target}] = e.Weight
		}
	}

	rows := make([]EdgeRow, 0, len(stats.TopEdges))
	for _, ec := range stats.TopEdges {
		rows = append(rows, EdgeRow{
			Source: ec.Edge.From,
			Target: ec.Edge.To,
			Weight: weights[[2]int{ec.Edge.From, ec.Edge.To}],
			Count:  ec.Count,
		})
	}

	return Report{
		Edges:            rows,
		UniqueEdges:      stats.UniqueEdges,
		TotalActivations: stats.TotalActivations,
		Frames:           frames,
	}
}
