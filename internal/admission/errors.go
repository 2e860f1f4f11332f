package admission

import "errors"

var (
	ErrNotApproved      = errors.New("not approved")
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrInvalidEvent     = errors.New("invalid event id")

	// ErrStorage marks a persistence failure. In-memory state is left untouched and
	// the operation may be retried.
	ErrStorage = errors.New("admission storage unavailable")
)
