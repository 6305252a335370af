package bench

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// chunkSize bounds every read and send buffer in the benchmark; whole
// files are never held in memory.
const chunkSize = 32 * 1024

// readFile reads the target sequentially to EOF in bounded chunks,
// XOR-folding the content into a single byte. The checksum keeps the read
// observable and gives a value to log, matching what a full drain of the
// file costs.
func readFile(path string) (byte, error) {
	file, err := os.Open(path)

	if err != nil {
		return 0, errors.Wrapf(err, "opening %s", path)
	}

	defer file.Close()

	var checksum byte

	buf := make([]byte, chunkSize)

	for {
		n, err := file.Read(buf)

		for _, b := range buf[:n] {
			checksum ^= b
		}

		if err == io.EOF {
			return checksum, nil
		}

		if err != nil {
			return 0, errors.Wrapf(err, "reading %s", path)
		}
	}
}
