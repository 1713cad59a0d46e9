package budget

import "errors"

// Sentinel errors shared across packages. The computation engine itself never
// returns errors (bad numbers coerce to zero, bad dates never match); these
// cover lifecycle operations and storage.
var (
	// ErrNotFound is returned when a rule, item or log id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidDate is returned when an operation requires a parseable
	// YYYY-MM-DD date and none was given.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNothingToArchive is returned when an archive run finds the active
	// grocery list already empty.
	ErrNothingToArchive = errors.New("nothing to archive")
)

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
