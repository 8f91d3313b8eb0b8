package parser

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/bytedance/sonic"

	"spikeplay/internal/core/model"
	"spikeplay/internal/util"
)

// ErrMalformedSnapshot reports a frame file violating the snapshot contract.
// Wrapped errors name the file and the offending field.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// rawSnapshot mirrors the exporter wire format. Pointer fields distinguish
// absent keys from zero values so required-field checks are exact.
type rawSnapshot struct {
	Neurons *[]rawNeuron `json:"neurons"`
}

type rawNeuron struct {
	ID          *int             `json:"id"`
	Potential   *float64         `json:"potential"`
	Spiked      *bool            `json:"spiked"`
	SpikeCount  *int             `json:"spike_count"`
	Connections *[]rawConnection `json:"connections"`
}

type rawConnection struct {
	Target *int     `json:"target"`
	Weight *float64 `json:"weight"`
}

// Parser decodes snapshot frame files.
type Parser struct {
	concurrency int
}

// ParseResult represents the outcome of parsing a single file.
type ParseResult struct {
	File     string
	Snapshot *model.Snapshot
	Error    error
}

// NewParser creates a Parser. Concurrency bounds the bulk-parse fan-out.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// Parse decodes and validates one snapshot document. Pure: no side effects,
// all-or-nothing.
func (p *Parser) Parse(data []byte) (*model.Snapshot, error) {
	var raw rawSnapshot
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if raw.Neurons == nil {
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedSnapshot, "neurons")
	}

	snapshot := &model.Snapshot{Neurons: make([]model.NeuronState, 0, len(*raw.Neurons))}
	seen := make(map[int]bool, len(*raw.Neurons))

	for i, rn := range *raw.Neurons {
		if rn.ID == nil {
			return nil, fmt.Errorf("%w: neuron at index %d: missing field %q", ErrMalformedSnapshot, i, "id")
		}
		id := *rn.ID
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate neuron id %d", ErrMalformedSnapshot, id)
		}
		seen[id] = true

		if rn.Potential == nil {
			return nil, fmt.Errorf("%w: neuron %d: missing field %q", ErrMalformedSnapshot, id, "potential")
		}
		if math.IsNaN(*rn.Potential) || math.IsInf(*rn.Potential, 0) {
			return nil, fmt.Errorf("%w: neuron %d: non-finite potential", ErrMalformedSnapshot, id)
		}
		if rn.Spiked == nil {
			return nil, fmt.Errorf("%w: neuron %d: missing field %q", ErrMalformedSnapshot, id, "spiked")
		}
		if rn.SpikeCount == nil {
			return nil, fmt.Errorf("%w: neuron %d: missing field %q", ErrMalformedSnapshot, id, "spike_count")
		}
		if *rn.SpikeCount < 0 {
			return nil, fmt.Errorf("%w: neuron %d: negative spike_count %d", ErrMalformedSnapshot, id, *rn.SpikeCount)
		}
		if rn.Connections == nil {
			return nil, fmt.Errorf("%w: neuron %d: missing field %q", ErrMalformedSnapshot, id, "connections")
		}

		outgoing := make([]model.Connection, 0, len(*rn.Connections))
		for j, rc := range *rn.Connections {
			if rc.Target == nil {
				return nil, fmt.Errorf("%w: neuron %d: connection %d: missing field %q", ErrMalformedSnapshot, id, j, "target")
			}
			if rc.Weight == nil {
				return nil, fmt.Errorf("%w: neuron %d: connection %d: missing field %q", ErrMalformedSnapshot, id, j, "weight")
			}
			w := *rc.Weight
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 || w > 1 {
				return nil, fmt.Errorf("%w: neuron %d: connection %d: weight %v outside [0,1]", ErrMalformedSnapshot, id, j, w)
			}
			outgoing = append(outgoing, model.Connection{Target: *rc.Target, Weight: w})
		}

		snapshot.Neurons = append(snapshot.Neurons, model.NeuronState{
			ID:         id,
			Potential:  *rn.Potential,
			Spiked:     *rn.Spiked,
			SpikeCount: *rn.SpikeCount,
			Outgoing:   outgoing,
		})
	}

	return snapshot, nil
}

// ParseFile reads and parses the snapshot file at the given path.
func (p *Parser) ParseFile(path string) (*model.Snapshot, error) {
	util.LogDebugf("Parsing snapshot file: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	snapshot, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

// ParseFiles parses multiple files concurrently and returns a channel that
// yields one result per file, then closes.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebugf("Parsing %d snapshot files, concurrency %d", len(files), p.concurrency)

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			snapshot, err := p.ParseFile(f)
			results <- ParseResult{File: f, Snapshot: snapshot, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
