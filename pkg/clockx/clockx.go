// Package clockx provides an injectable clock so time-dependent code can be
// tested with a fixed or scripted time source instead of the system clock.
package clockx

import "time"

// Clock is the single time source for the auth subsystem. Components that
// need the current time take a Clock in their constructor; nothing reads
// time.Now directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a plain function to the Clock interface. Handy in tests:
//
//	clock := clockx.ClockFunc(func() time.Time { return fixed })
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
