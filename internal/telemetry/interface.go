package telemetry

import "time"

// Sample represents one heart rate reading, timestamped at arrival
type Sample struct {
	Time time.Time
	BPM  int
}

// Range is an inclusive time window over the sample log
type Range struct {
	From time.Time
	To   time.Time
}

// Duration returns the span covered by the range
func (r Range) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// IsZero reports whether the range has not been set yet
func (r Range) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Clock abstracts time for deterministic tests
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// PushFunc receives recomputed view ranges for the rendering surface,
// together with whether the view is following live data
type PushFunc func(r Range, followLive bool)
