package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"spikeplay/internal/core/model"
	"spikeplay/internal/util"
)

// ErrNoFramesFound reports that no files matched the naming pattern derived
// from the reference file.
var ErrNoFramesFound = errors.New("no frames found")

// Naming families recognized in frame file names. The training pattern is
// matched first because its names also end in _step<N>.
var (
	trainingPattern = regexp.MustCompile(`^(.+)_epoch(\d+)(?:_([a-z]+))?_digit(\d+)_step(\d+)\.json$`)
	stepPattern     = regexp.MustCompile(`^(.+)_step(\d+)\.json$`)
)

// Family identifies which naming family a reference file belongs to.
type Family int

const (
	FamilyStep Family = iota
	FamilyTraining
)

func (f Family) String() string {
	if f == FamilyTraining {
		return "training"
	}
	return "step"
}

// FrameFile is one discovered frame file with its extracted ordering key.
type FrameFile struct {
	Path string
	Key  model.OrderingKey
}

// FrameScanner discovers sibling frame files of a reference file.
type FrameScanner struct {
	searchRoot string
}

// NewFrameScanner creates a scanner. The search root is used when the
// reference file's directory cannot be resolved; empty means the current
// directory.
func NewFrameScanner(searchRoot string) *FrameScanner {
	if searchRoot == "" {
		searchRoot = "."
	}
	return &FrameScanner{searchRoot: searchRoot}
}

// nameSpec is the pattern derived from a reference file name: every sibling
// must share the family, prefix and infix.
type nameSpec struct {
	family Family
	prefix string
	infix  string // training family only, e.g. "test" in epoch0_test_digit3
}

// humanPattern renders the spec for error messages.
func (n nameSpec) humanPattern() string {
	switch n.family {
	case FamilyTraining:
		if n.infix != "" {
			return fmt.Sprintf("%s_epoch<E>_%s_digit<D>_step<S>.json", n.prefix, n.infix)
		}
		return fmt.Sprintf("%s_epoch<E>_digit<D>_step<S>.json", n.prefix)
	default:
		return fmt.Sprintf("%s_step<N>.json", n.prefix)
	}
}

// classify derives the nameSpec from a file base name; ok is false when the
// name belongs to no known family.
func classify(base string) (nameSpec, bool) {
	if m := trainingPattern.FindStringSubmatch(base); m != nil {
		return nameSpec{family: FamilyTraining, prefix: m[1], infix: m[3]}, true
	}
	if m := stepPattern.FindStringSubmatch(base); m != nil {
		return nameSpec{family: FamilyStep, prefix: m[1]}, true
	}
	return nameSpec{}, false
}

// match extracts the ordering key of a candidate base name, requiring the
// same family, prefix and infix as the spec.
func (n nameSpec) match(base string) (model.OrderingKey, bool) {
	switch n.family {
	case FamilyTraining:
		m := trainingPattern.FindStringSubmatch(base)
		if m == nil || m[1] != n.prefix || m[3] != n.infix {
			return model.OrderingKey{}, false
		}
		epoch, err1 := strconv.Atoi(m[2])
		digit, err2 := strconv.Atoi(m[4])
		step, err3 := strconv.Atoi(m[5])
		if err1 != nil || err2 != nil || err3 != nil {
			return model.OrderingKey{}, false
		}
		return model.OrderingKey{Kind: model.KeyTraining, Epoch: epoch, Digit: digit, Step: step}, true
	default:
		m := stepPattern.FindStringSubmatch(base)
		if m == nil || m[1] != n.prefix {
			return model.OrderingKey{}, false
		}
		// A training-family name also ends in _step<N>; keep it out of the
		// step family.
		if trainingPattern.MatchString(base) {
			return model.OrderingKey{}, false
		}
		step, err := strconv.Atoi(m[2])
		if err != nil {
			return model.OrderingKey{}, false
		}
		return model.OrderingKey{Kind: model.KeyStep, Step: step}, true
	}
}

// Discover finds every file in the reference file's directory that belongs
// to the same naming family, with its ordering key. The result is in
// directory listing order; callers sort.
func (s *FrameScanner) Discover(referenceFile string) ([]FrameFile, error) {
	base := filepath.Base(referenceFile)
	spec, ok := classify(base)
	if !ok {
		return nil, fmt.Errorf("%w: %q matches no known naming family (<prefix>_step<N>.json or <prefix>_epoch<E>[_<tag>]_digit<D>_step<S>.json)",
			ErrNoFramesFound, base)
	}

	dir := s.resolveDir(referenceFile)
	util.LogDebugf("Scanning %s for frames matching %s", dir, spec.humanPattern())

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading frame directory %s: %w", dir, err)
	}

	var frames []FrameFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, ok := spec.match(entry.Name())
		if !ok {
			continue
		}
		frames = append(frames, FrameFile{
			Path: filepath.Join(dir, entry.Name()),
			Key:  key,
		})
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no files matching %s in %s", ErrNoFramesFound, spec.humanPattern(), dir)
	}

	util.LogDebugf("Discovered %d frame files in %s (%s family)", len(frames), dir, spec.family)
	return frames, nil
}

// resolveDir returns the reference file's directory, falling back to the
// search root when it does not exist.
func (s *FrameScanner) resolveDir(referenceFile string) string {
	dir := filepath.Dir(referenceFile)
	if dir == "." {
		return s.searchRoot
	}
	if _, err := os.Stat(dir); err != nil {
		util.LogDebugf("Frame directory %s not resolvable, falling back to %s", dir, s.searchRoot)
		return s.searchRoot
	}
	return dir
}
