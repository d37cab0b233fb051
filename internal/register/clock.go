package register

import "time"

// Clock supplies the wall-clock "now" used for validation, automatic checks
// and temporal frames. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
