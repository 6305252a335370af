package bench

import (
	"os"

	"github.com/pkg/errors"
)

// Target is one benchmarked file, stat-checked before any trial runs so a
// missing or unreadable file fails the whole run up front.
type Target struct {
	Path string
	Size int64
}

func ResolveTargets(paths []string) ([]Target, error) {
	targets := make([]Target, 0, len(paths))

	for _, path := range paths {
		info, err := os.Stat(path)

		if err != nil {
			return nil, errors.Wrapf(err, "resolving target %s", path)
		}

		if !info.Mode().IsRegular() {
			return nil, errors.Errorf("target %s is not a regular file", path)
		}

		targets = append(targets, Target{Path: path, Size: info.Size()})
	}

	return targets, nil
}
