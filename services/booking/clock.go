package booking

import "time"

// Clock supplies "now" to the engine so refund computations and expiry checks
// are reproducible in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// SystemClock returns a clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
