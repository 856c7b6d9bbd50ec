package clock

import "time"

// Clock is how services observe the current time. Registration deadlines,
// the survey dispatch window, and token expiry all read through it, so tests
// can pin the moment with a manual implementation.
type Clock interface {
	Now() time.Time
}
