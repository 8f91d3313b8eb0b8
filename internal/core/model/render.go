package model

// Position is a point in layout space. Flat strategies still fill Z with
// the role depth so renderers can project uniformly.
type Position struct {
	X float64
	Y float64
	Z float64
}

// NodeRole classifies a neuron by its structural position in the graph.
type NodeRole int

const (
	RoleInput NodeRole = iota
	RoleHidden
	RoleOutput
)

func (r NodeRole) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleHidden:
		return "hidden"
	case RoleOutput:
		return "output"
	default:
		return "unknown"
	}
}

// NodeCategory is the visual state of a node within one frame.
type NodeCategory int

const (
	NodeNormal NodeCategory = iota
	NodeSpiked
)

func (c NodeCategory) String() string {
	if c == NodeSpiked {
		return "spiked"
	}
	return "normal"
}

// EdgeCategory is the visual state of an edge within one frame.
type EdgeCategory int

const (
	EdgeInactive EdgeCategory = iota
	EdgeActive
)

func (c EdgeCategory) String() string {
	if c == EdgeActive {
		return "active"
	}
	return "inactive"
}

// RenderNode is the per-node visual descriptor of one frame.
type RenderNode struct {
	ID         int
	Position   Position
	Category   NodeCategory
	Intensity  float64
	Size       float64
	Role       NodeRole
	SpikeCount int
	Label      string
}

// RenderEdge is the per-edge visual descriptor of one frame. Endpoint
// positions are resolved so renderers never need the layout map.
type RenderEdge struct {
	From     int
	To       int
	FromPos  Position
	ToPos    Position
	Category EdgeCategory
	Weight   float64
	Width    float64
}

// RenderFrame is the transient per-tick descriptor handed to a renderer.
// It is complete: a renderer needs nothing beyond this to draw the frame.
type RenderFrame struct {
	Index int
	Label string
	Nodes []RenderNode
	Edges []RenderEdge
}
