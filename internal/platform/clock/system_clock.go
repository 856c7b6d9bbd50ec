package clock

import "time"

// SystemClock reads the wall clock. Times are reported in UTC, matching
// what the repositories store.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
