package activity

import (
	"sort"

	"spikeplay/internal/core/model"
	"spikeplay/internal/core/topology"
	"spikeplay/internal/util"
)

// DefaultEpsilon is the minimum potential rise treated as a jump.
const DefaultEpsilon = 0.01

// ActivitySet is the set of directed edges considered active between two
// consecutive frames.
type ActivitySet map[model.EdgeKey]struct{}

// Contains reports whether the edge from -> to is in the set.
func (s ActivitySet) Contains(from, to int) bool {
	_, ok := s[model.EdgeKey{From: from, To: to}]
	return ok
}

// EdgeCount is one row of the cumulative activation statistics.
type EdgeCount struct {
	Edge  model.EdgeKey
	Count int
}

// Stats summarizes cumulative edge activity across all Detect calls.
type Stats struct {
	TopEdges         []EdgeCount
	UniqueEdges      int
	TotalActivations int
}

// Detector diffs consecutive snapshots against the session topology and
// keeps cumulative per-edge activation counts.
//
// Two rules mark an edge active, matching the replayed simulator:
//  1. a neuron that spikes on this frame but not the previous one activates
//     all of its outgoing edges;
//  2. a neuron whose potential rose by more than epsilon activates every
//     incoming edge whose source spiked on the previous frame.
//
// Rule 2 over-approximates when several presynaptic spikes feed one jump.
type Detector struct {
	topo    *topology.Topology
	epsilon float64

	counter map[model.EdgeKey]int
	total   int
}

// NewDetector builds a detector bound to one session topology.
func NewDetector(topo *topology.Topology) *Detector {
	return &Detector{
		topo:    topo,
		epsilon: DefaultEpsilon,
		counter: make(map[model.EdgeKey]int),
	}
}

// Detect returns the edges active between prev and curr and adds them to the
// cumulative counts. A nil prev (the first frame of a pass) yields an empty
// set. Neuron ids outside the session topology are skipped; ids missing from
// prev have no before state to diff against and are skipped as well.
func (d *Detector) Detect(prev, curr *model.Snapshot) ActivitySet {
	active := make(ActivitySet)
	if prev == nil || curr == nil {
		return active
	}

	prevIdx := prev.Index()
	jumped := make(map[int]bool)

	for _, now := range curr.Neurons {
		if !d.topo.HasNode(now.ID) {
			util.LogDebugf("Skipping neuron %d: not in session topology", now.ID)
			continue
		}
		before, seen := prevIdx[now.ID]
		if !seen {
			continue
		}

		if now.Spiked && !before.Spiked {
			for _, e := range d.topo.OutEdges(now.ID) {
				active[model.EdgeKey{From: e.Source, To: e.Target}] = struct{}{}
			}
		}
		if now.Potential-before.Potential > d.epsilon {
			jumped[now.ID] = true
		}
	}

	// A potential jump implicates every presynaptic neuron that spiked on
	// the previous frame.
	for _, w := range prev.Neurons {
		if !w.Spiked || !d.topo.HasNode(w.ID) {
			continue
		}
		for _, e := range d.topo.OutEdges(w.ID) {
			if jumped[e.Target] {
				active[model.EdgeKey{From: e.Source, To: e.Target}] = struct{}{}
			}
		}
	}

	for key := range active {
		d.counter[key]++
	}
	d.total += len(active)
	return active
}

// Summary returns the cumulative statistics with the topK most active edges,
// ordered by descending count then ascending (From, To). topK <= 0 returns
// every edge.
func (d *Detector) Summary(topK int) Stats {
	rows := make([]EdgeCount, 0, len(d.counter))
	for key, count := range d.counter {
		rows = append(rows, EdgeCount{Edge: key, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].Edge.From != rows[j].Edge.From {
			return rows[i].Edge.From < rows[j].Edge.From
		}
		return rows[i].Edge.To < rows[j].Edge.To
	})
	if topK > 0 && len(rows) > topK {
		rows = rows[:topK]
	}
	return Stats{
		TopEdges:         rows,
		UniqueEdges:      len(d.counter),
		TotalActivations: d.total,
	}
}

// Counts returns a copy of the cumulative per-edge counts.
func (d *Detector) Counts() map[model.EdgeKey]int {
	out := make(map[model.EdgeKey]int, len(d.counter))
	for k, v := range d.counter {
		out[k] = v
	}
	return out
}

// Reset clears the cumulative counts.
func (d *Detector) Reset() {
	d.counter = make(map[model.EdgeKey]int)
	d.total = 0
}
