package srs

import "time"

// Nower abstracts the clock so scheduling stays deterministic in tests.
type Nower interface {
	Now() time.Time
}

type RealNower struct{}

func (r RealNower) Now() time.Time {
	return time.Now()
}
