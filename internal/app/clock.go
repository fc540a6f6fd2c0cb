package app

import "time"

// Clock supplies "today" to the services. Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
