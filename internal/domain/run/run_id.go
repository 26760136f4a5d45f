package run

import (
	"fmt"

	"github.com/google/uuid"
)

// RunID identifies one project run
type RunID struct {
	value string
}

// NewRunID generates a random RunID
func NewRunID() RunID {
	return RunID{value: uuid.New().String()}
}

// ParseRunID validates a stored or user supplied id
func ParseRunID(id string) (RunID, error) {
	if id == "" {
		return RunID{}, fmt.Errorf("run_id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return RunID{}, fmt.Errorf("invalid run_id format: %w", err)
	}
	return RunID{value: id}, nil
}

// MustParseRunID panics on an invalid id. Use only for ids read back from
// the database.
func MustParseRunID(id string) RunID {
	rid, err := ParseRunID(id)
	if err != nil {
		panic(err)
	}
	return rid
}

func (r RunID) String() string { return r.value }

// Short is the first eight hex characters, for display
func (r RunID) Short() string {
	if len(r.value) < 8 {
		return r.value
	}
	return r.value[:8]
}

func (r RunID) Equals(other RunID) bool { return r.value == other.value }

func (r RunID) IsZero() bool { return r.value == "" }
