package topology

import (
	"spikeplay/internal/core/model"
	"spikeplay/internal/util"
)

// Edge is one directed, weighted synaptic connection.
type Edge struct {
	Source int
	Target int
	Weight float64
}

// Topology is the static graph of a playback session, derived from the
// first snapshot. Node enumeration follows first appearance in that
// snapshot so labeling and palettes are reproducible across runs.
type Topology struct {
	order    []int
	nodes    map[int]bool
	edges    []Edge
	outEdges map[int][]Edge
	inDeg    map[int]int
	outDeg   map[int]int
	outputs  []int
}

// Build derives the session topology from the first snapshot. Edges whose
// target id does not appear in the snapshot are dropped with a warning; the
// node set is exactly the ids recorded in the snapshot.
func Build(first *model.Snapshot) *Topology {
	t := &Topology{
		nodes:    make(map[int]bool, len(first.Neurons)),
		outEdges: make(map[int][]Edge),
		inDeg:    make(map[int]int),
		outDeg:   make(map[int]int),
	}

	for _, n := range first.Neurons {
		t.order = append(t.order, n.ID)
		t.nodes[n.ID] = true
	}

	for _, n := range first.Neurons {
		for _, conn := range n.Outgoing {
			if !t.nodes[conn.Target] {
				util.LogWarnf("Dropping edge %d->%d: target not in first snapshot", n.ID, conn.Target)
				continue
			}
			edge := Edge{Source: n.ID, Target: conn.Target, Weight: conn.Weight}
			t.edges = append(t.edges, edge)
			t.outEdges[n.ID] = append(t.outEdges[n.ID], edge)
			t.outDeg[n.ID]++
			t.inDeg[conn.Target]++
		}
	}

	for _, id := range t.order {
		if t.Role(id) == model.RoleOutput {
			t.outputs = append(t.outputs, id)
		}
	}

	return t
}

// NodeIDs returns all node ids in first-appearance order.
func (t *Topology) NodeIDs() []int {
	return t.order
}

// NodeCount returns the number of nodes.
func (t *Topology) NodeCount() int {
	return len(t.order)
}

// Edges returns all edges in (node order, connection order).
func (t *Topology) Edges() []Edge {
	return t.edges
}

// EdgeCount returns the number of edges.
func (t *Topology) EdgeCount() int {
	return len(t.edges)
}

// OutEdges returns the outgoing edges of a node.
func (t *Topology) OutEdges(id int) []Edge {
	return t.outEdges[id]
}

// HasNode reports whether the id belongs to the topology.
func (t *Topology) HasNode(id int) bool {
	return t.nodes[id]
}

// InDegree returns the number of incoming edges of a node.
func (t *Topology) InDegree(id int) int {
	return t.inDeg[id]
}

// OutDegree returns the number of outgoing edges of a node.
func (t *Topology) OutDegree(id int) int {
	return t.outDeg[id]
}

// Role classifies a node: no incoming edges makes an input, no outgoing
// edges makes an output, anything else is hidden. Isolated nodes count as
// inputs because the in-degree rule is checked first.
func (t *Topology) Role(id int) model.NodeRole {
	if t.inDeg[id] == 0 {
		return model.RoleInput
	}
	if t.outDeg[id] == 0 {
		return model.RoleOutput
	}
	return model.RoleHidden
}

// ByRole returns the node ids of one role, in first-appearance order.
func (t *Topology) ByRole(role model.NodeRole) []int {
	var ids []int
	for _, id := range t.order {
		if t.Role(id) == role {
			ids = append(ids, id)
		}
	}
	return ids
}

// OutputIndex returns the position of a node among the outputs in
// first-appearance order, or -1 when the node is not an output. Output
// position doubles as the digit label in classification networks.
func (t *Topology) OutputIndex(id int) int {
	for i, out := range t.outputs {
		if out == id {
			return i
		}
	}
	return -1
}
