package eventrepo

import "errors"

var (
	ErrNotFound           = errors.New("event not found")
	ErrOccurrenceNotFound = errors.New("occurrence not found")
)
