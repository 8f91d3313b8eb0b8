package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spikeplay/internal/core/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListRuns(t *testing.T) {
	s := openTestStore(t)

	run := Run{
		ID: NewRunID(), Base: "net_step0.json", Layout: "layered",
		Frames: 10, StartedAt: 1000, FinishedAt: 1010, TotalActivations: 7,
	}
	counts := map[model.EdgeKey]int{
		{From: 0, To: 1}: 4,
		{From: 1, To: 2}: 3,
	}
	require.NoError(t, s.RecordRun(run, counts))

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run, runs[0])

	edges, err := s.RunEdges(run.ID)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, EdgeTotal{Source: 0, Target: 1, Count: 4}, edges[0])
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	older := Run{ID: NewRunID(), Base: "a_step0.json", Layout: "circular", StartedAt: 100, FinishedAt: 110}
	newer := Run{ID: NewRunID(), Base: "b_step0.json", Layout: "spring", StartedAt: 200, FinishedAt: 210}
	require.NoError(t, s.RecordRun(older, nil))
	require.NoError(t, s.RecordRun(newer, nil))

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestTopEdgesSumsAcrossRuns(t *testing.T) {
	s := openTestStore(t)

	first := Run{ID: NewRunID(), Base: "n_step0.json", Layout: "layered", StartedAt: 1}
	second := Run{ID: NewRunID(), Base: "n_step0.json", Layout: "layered", StartedAt: 2}
	require.NoError(t, s.RecordRun(first, map[model.EdgeKey]int{
		{From: 0, To: 1}: 5,
		{From: 1, To: 2}: 1,
	}))
	require.NoError(t, s.RecordRun(second, map[model.EdgeKey]int{
		{From: 0, To: 1}: 2,
	}))

	top, err := s.TopEdges(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, EdgeTotal{Source: 0, Target: 1, Count: 7}, top[0])

	all, err := s.TopEdges(0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecordRunReplacesExisting(t *testing.T) {
	s := openTestStore(t)

	run := Run{ID: NewRunID(), Base: "n_step0.json", Layout: "layered", Frames: 3, StartedAt: 1}
	require.NoError(t, s.RecordRun(run, map[model.EdgeKey]int{{From: 0, To: 1}: 1}))

	run.Frames = 9
	require.NoError(t, s.RecordRun(run, map[model.EdgeKey]int{{From: 4, To: 5}: 2}))

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 9, runs[0].Frames)

	edges, err := s.RunEdges(run.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, EdgeTotal{Source: 4, Target: 5, Count: 2}, edges[0])
}
