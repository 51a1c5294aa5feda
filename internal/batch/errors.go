package batch

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the batch package.
var (
	// ErrEngineNotAvailable is returned when the conversion engine binary
	// cannot be located or started at all. It aborts the whole batch.
	ErrEngineNotAvailable = errors.New("conversion engine not available")

	// ErrDestinationConflict is returned when two sources in one batch
	// map to the same destination path.
	ErrDestinationConflict = errors.New("destination conflict")
)

// ConflictError reports the sources whose destinations collide.
// Matches ErrDestinationConflict in errors.Is chains.
type ConflictError struct {
	Dest    string
	Sources []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("destination %s claimed by multiple sources: %s",
		e.Dest, strings.Join(e.Sources, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrDestinationConflict
}
