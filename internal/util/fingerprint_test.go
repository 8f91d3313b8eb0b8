package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFingerprintChangesWithContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net_step0.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"neurons": []}`), 0644))

	first, err := SnapshotFingerprint(path)
	require.NoError(t, err)
	assert.Len(t, first, 8)

	again, err := SnapshotFingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, first, again, "stable for unchanged content")

	doc := `{"neurons": [{"id": 0, "potential": 0.5, "spiked": false, "spike_count": 0, "connections": []}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	changed, err := SnapshotFingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestSnapshotFingerprintMissingFile(t *testing.T) {
	_, err := SnapshotFingerprint(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
