package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spikeplay/internal/core/model"
	"spikeplay/internal/data/store"
)

func seedStatsDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.RecordRun(store.Run{
		ID: store.NewRunID(), Base: "net_step0.json", Layout: "layered",
		Frames: 3, StartedAt: 1700000000, FinishedAt: 1700000010, TotalActivations: 6,
	}, map[model.EdgeKey]int{
		{From: 0, To: 1}: 4,
		{From: 1, To: 2}: 2,
	}))
	return dbPath
}

func TestStatsTableOutput(t *testing.T) {
	dbPath := seedStatsDB(t)

	out, err := executeCommand(t, "stats", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Recorded runs: 1")
	assert.Contains(t, out, "net_step0.json")
	assert.Contains(t, out, "0 → 1")
	assert.Contains(t, out, "2 unique")
}

func TestStatsJSONOutput(t *testing.T) {
	dbPath := seedStatsDB(t)

	out, err := executeCommand(t, "stats", "--db", dbPath, "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_activations": 6`)
	assert.Contains(t, out, `"source": 0`)
}

func TestStatsTopLimitsEdges(t *testing.T) {
	dbPath := seedStatsDB(t)

	out, err := executeCommand(t, "stats", "--db", dbPath, "--top", "1", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "0,1,0.000,4")
	assert.NotContains(t, out, "1,2,0.000,2")
}

func TestStatsEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	s.Close()

	out, err := executeCommand(t, "stats", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No recorded runs.")
}

func TestStatsRejectsUnknownFormat(t *testing.T) {
	dbPath := seedStatsDB(t)

	_, err := executeCommand(t, "stats", "--db", dbPath, "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
