package sequence

import (
	"errors"
	"fmt"
	"sort"

	"spikeplay/internal/core/model"
	"spikeplay/internal/data/parser"
	"spikeplay/internal/data/scanner"
	"spikeplay/internal/util"
)

var (
	// ErrEmptySequence reports a build from zero frame files. The scanner's
	// ErrNoFramesFound normally fires first; this is the builder-level guard.
	ErrEmptySequence = errors.New("empty frame sequence")
	// ErrDuplicateKey reports two files claiming the same timeline slot.
	ErrDuplicateKey = errors.New("duplicate ordering key")
)

// Frame is one entry of a FrameSequence.
type Frame struct {
	Snapshot *model.Snapshot
	Meta     model.FrameMeta
}

// FrameSequence is the key-ordered timeline of snapshots. Immutable once
// built; all access goes through methods.
type FrameSequence struct {
	frames []Frame
}

// Len returns the number of frames.
func (s *FrameSequence) Len() int {
	return len(s.frames)
}

// Frame returns the frame at index i.
func (s *FrameSequence) Frame(i int) Frame {
	return s.frames[i]
}

// First returns the first snapshot, the one the topology derives from.
func (s *FrameSequence) First() *model.Snapshot {
	return s.frames[0].Snapshot
}

// Builder turns discovered frame files into a FrameSequence.
type Builder struct {
	parser *parser.Parser
}

// NewBuilder creates a Builder parsing through p.
func NewBuilder(p *parser.Parser) *Builder {
	return &Builder{parser: p}
}

// Build sorts the files by ordering key, rejects duplicates, and parses all
// of them. The load is atomic: any file failing to parse fails the whole
// build and no frames are exposed.
func (b *Builder) Build(files []scanner.FrameFile) (*FrameSequence, error) {
	if len(files) == 0 {
		return nil, ErrEmptySequence
	}

	sorted := make([]scanner.FrameFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key.Less(sorted[j].Key)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Key.Compare(sorted[i-1].Key) == 0 {
			return nil, fmt.Errorf("%w: %s claimed by both %s and %s",
				ErrDuplicateKey, sorted[i].Key, sorted[i-1].Path, sorted[i].Path)
		}
	}

	paths := make([]string, len(sorted))
	for i, f := range sorted {
		paths[i] = f.Path
	}

	byFile := make(map[string]parser.ParseResult, len(paths))
	for result := range b.parser.ParseFiles(paths) {
		byFile[result.File] = result
	}

	// Surface the earliest failure on the timeline so repeated loads report
	// the same error.
	frames := make([]Frame, 0, len(sorted))
	for _, f := range sorted {
		result := byFile[f.Path]
		if result.Error != nil {
			return nil, fmt.Errorf("loading frame sequence: %w", result.Error)
		}
		frames = append(frames, Frame{
			Snapshot: result.Snapshot,
			Meta:     model.FrameMeta{Path: f.Path, Key: f.Key},
		})
	}

	util.LogInfof("Loaded frame sequence: %d frames (%s .. %s)",
		len(frames), frames[0].Meta.Key, frames[len(frames)-1].Meta.Key)

	return &FrameSequence{frames: frames}, nil
}
