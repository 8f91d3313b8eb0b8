package model

import "fmt"

// Connection is one outgoing synapse of a neuron.
type Connection struct {
	Target int
	Weight float64
}

// NeuronState is the recorded state of a single neuron at one instant.
type NeuronState struct {
	ID         int
	Potential  float64
	Spiked     bool
	SpikeCount int
	Outgoing   []Connection
}

// Snapshot is the state of every neuron in the network at one instant.
// Treated as immutable once loaded.
type Snapshot struct {
	Neurons []NeuronState
}

// Index returns a lookup table from neuron id to its state in this snapshot.
func (s *Snapshot) Index() map[int]NeuronState {
	idx := make(map[int]NeuronState, len(s.Neurons))
	for _, n := range s.Neurons {
		idx[n.ID] = n
	}
	return idx
}

// KeyKind identifies which naming family produced an ordering key.
type KeyKind int

const (
	// KeyStep orders frames by a single step index.
	KeyStep KeyKind = iota
	// KeyTraining orders frames by an (epoch, digit, step) tuple.
	KeyTraining
)

// OrderingKey is the sort key that places a frame file on the timeline.
// Comparison is lexicographic over (Epoch, Digit, Step); step-family keys
// carry the step index with zero epoch and digit.
type OrderingKey struct {
	Kind  KeyKind
	Epoch int
	Digit int
	Step  int
}

// Compare returns -1, 0 or 1 ordering k relative to other.
func (k OrderingKey) Compare(other OrderingKey) int {
	if k.Epoch != other.Epoch {
		if k.Epoch < other.Epoch {
			return -1
		}
		return 1
	}
	if k.Digit != other.Digit {
		if k.Digit < other.Digit {
			return -1
		}
		return 1
	}
	if k.Step != other.Step {
		if k.Step < other.Step {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether k sorts before other.
func (k OrderingKey) Less(other OrderingKey) bool {
	return k.Compare(other) < 0
}

// Label renders the key for frame titles.
func (k OrderingKey) Label() string {
	if k.Kind == KeyTraining {
		return fmt.Sprintf("Epoch %d, Digit %d, Step %d", k.Epoch, k.Digit, k.Step)
	}
	return fmt.Sprintf("Step %d", k.Step)
}

func (k OrderingKey) String() string {
	if k.Kind == KeyTraining {
		return fmt.Sprintf("(%d,%d,%d)", k.Epoch, k.Digit, k.Step)
	}
	return fmt.Sprintf("(%d)", k.Step)
}

// FrameMeta describes where a frame came from and where it sits on the
// timeline.
type FrameMeta struct {
	Path string
	Key  OrderingKey
}

// Label renders the human-readable frame title.
func (m FrameMeta) Label() string {
	return m.Key.Label()
}

// EdgeKey identifies a directed edge between two neurons.
type EdgeKey struct {
	From int
	To   int
}

func (e EdgeKey) String() string {
	return fmt.Sprintf("%d->%d", e.From, e.To)
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
