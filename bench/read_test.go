package bench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestReadFile_Checksum testing the full sequential read and its XOR fold
func TestReadFile_Checksum(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "target.bin")

	payload := []byte{0x01, 0x02, 0x04, 0xFF}
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	checksum, err := readFile(path)
	require.NoError(t, err)
	require.Equal(t, byte(0x01^0x02^0x04^0xFF), checksum)
}

// TestReadFile_SpansChunks testing a file larger than one read buffer
func TestReadFile_SpansChunks(t *testing.T) {
	t.Parallel()

	size := chunkSize*2 + 13
	path := writeTempFile(t, size)

	var expected byte

	for i := 0; i < size; i++ {
		expected ^= byte(i)
	}

	checksum, err := readFile(path)
	require.NoError(t, err)
	require.Equal(t, expected, checksum)
}

// TestReadFile_Missing testing the open failure path
func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := readFile(filepath.Join(t.TempDir(), "absent.bin"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "opening")
}
