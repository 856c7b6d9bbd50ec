package personrepo

import "errors"

var (
	ErrNotFound      = errors.New("person not found")
	ErrEmailConflict = errors.New("email already in use")
)
