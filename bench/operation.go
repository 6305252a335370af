package bench

import (
	"strings"

	"github.com/pkg/errors"
)

// Operation is one timed trial kind.
type Operation string

const (
	OpRead      Operation = "read"
	OpTranscode Operation = "transcode"
	OpTransfer  Operation = "transfer"
)

var AllOperations = []Operation{OpRead, OpTranscode, OpTransfer}

func (op Operation) Valid() bool {
	switch op {
	case OpRead, OpTranscode, OpTransfer:
		return true
	}

	return false
}

// ParseOperations parses a comma-separated operation list, preserving
// order and rejecting unknown or duplicate names.
func ParseOperations(list string) ([]Operation, error) {
	var ops []Operation

	seen := make(map[Operation]bool)

	for _, name := range strings.Split(list, ",") {
		op := Operation(strings.TrimSpace(name))

		if !op.Valid() {
			return nil, errors.Errorf("unknown operation %q", name)
		}

		if seen[op] {
			return nil, errors.Errorf("operation %q listed twice", name)
		}

		seen[op] = true
		ops = append(ops, op)
	}

	return ops, nil
}
