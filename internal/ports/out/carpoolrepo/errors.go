package carpoolrepo

import "errors"

var (
	ErrDriverNotFound      = errors.New("driver offer not found")
	ErrRiderNotFound       = errors.New("rider request not found")
	ErrNoSeats             = errors.New("driver has no seats available")
	ErrRiderAlreadyMatched = errors.New("rider already matched")
	ErrDuplicateMatch      = errors.New("pair already matched")
)
