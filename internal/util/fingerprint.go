package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// SnapshotFingerprint hashes a snapshot frame file (CRC32 over the whole
// document). Frame files are small JSON documents and a rewrite can change
// any neuron entry, so the full content is hashed rather than a sample.
func SnapshotFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", h.Sum32()), nil
}
