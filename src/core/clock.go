package core

import "time"

// A Clock is a source of the current time. It exists so that anything making
// time-based decisions can be driven by a fake in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock reading the real system time.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
