package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// Neuron is one neuron entry in the exporter wire format.
type Neuron struct {
	ID          int          `json:"id"`
	Potential   float64      `json:"potential"`
	Spiked      bool         `json:"spiked"`
	SpikeCount  int          `json:"spike_count"`
	Connections []Connection `json:"connections"`
}

// Connection is one outgoing synapse in the exporter wire format.
type Connection struct {
	Target int     `json:"target"`
	Weight float64 `json:"weight"`
}

// Document is a full snapshot frame file.
type Document struct {
	Neurons []Neuron `json:"neurons"`
}

// Generator writes snapshot frame files for tests.
type Generator struct {
	baseDir string
}

// NewGenerator creates a generator writing under baseDir.
func NewGenerator(baseDir string) *Generator {
	return &Generator{baseDir: baseDir}
}

// WriteFrame writes one frame file with the given name and neurons, returning
// the full path.
func (g *Generator) WriteFrame(name string, neurons []Neuron) (string, error) {
	if neurons == nil {
		neurons = []Neuron{}
	}
	data, err := sonic.Marshal(Document{Neurons: neurons})
	if err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteStepFrames writes a step-family sequence <prefix>_step<N>.json, one
// file per snapshot, and returns the path of the first file written.
func (g *Generator) WriteStepFrames(prefix string, frames [][]Neuron) (string, error) {
	var first string
	for i, neurons := range frames {
		path, err := g.WriteFrame(fmt.Sprintf("%s_step%d.json", prefix, i), neurons)
		if err != nil {
			return "", err
		}
		if i == 0 {
			first = path
		}
	}
	return first, nil
}

// FeedForward builds a tiny feed-forward snapshot: neuron 0 feeds 1, 1 feeds
// 2. Useful as the structural base of sequence tests; callers mutate spikes
// and potentials per frame.
func FeedForward(potentials [3]float64, spiked [3]bool) []Neuron {
	return []Neuron{
		{ID: 0, Potential: potentials[0], Spiked: spiked[0], SpikeCount: b2i(spiked[0]),
			Connections: []Connection{{Target: 1, Weight: 0.5}}},
		{ID: 1, Potential: potentials[1], Spiked: spiked[1], SpikeCount: b2i(spiked[1]),
			Connections: []Connection{{Target: 2, Weight: 0.4}}},
		{ID: 2, Potential: potentials[2], Spiked: spiked[2], SpikeCount: b2i(spiked[2]),
			Connections: []Connection{}},
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
