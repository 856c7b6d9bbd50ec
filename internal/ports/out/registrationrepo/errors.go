package registrationrepo

import "errors"

var (
	// ErrDuplicateActive means an active registration already exists for the
	// (person, occurrence) pair.
	ErrDuplicateActive = errors.New("active registration already exists")

	// ErrCapacityExceeded means the occurrence is at capacity.
	ErrCapacityExceeded = errors.New("occurrence capacity exceeded")

	// ErrNoActive means no active registration exists for the pair.
	ErrNoActive = errors.New("no active registration")
)
