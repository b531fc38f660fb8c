package telemetry

import (
	"sort"
	"sync"
)

// Buffer is the append-only log of accepted samples for the current run.
// The connection supervisor is the only writer; the UI reads snapshots
// concurrently, so access is guarded.
type Buffer struct {
	mu      sync.RWMutex
	samples []Sample
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a sample to the log. Timestamps are kept non-decreasing so
// range queries can binary search; a sample carrying an earlier timestamp
// than its predecessor is clamped to the predecessor's.
func (b *Buffer) Append(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n := len(b.samples); n > 0 && s.Time.Before(b.samples[n-1].Time) {
		s.Time = b.samples[n-1].Time
	}
	b.samples = append(b.samples, s)
}

// Len returns the number of samples recorded so far
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.samples)
}

// First returns the earliest sample, if any
func (b *Buffer) First() (Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.samples) == 0 {
		return Sample{}, false
	}
	return b.samples[0], true
}

// Last returns the most recent sample, if any
func (b *Buffer) Last() (Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.samples) == 0 {
		return Sample{}, false
	}
	return b.samples[len(b.samples)-1], true
}

// Between returns a copy of all samples with timestamps in [r.From, r.To],
// in arrival order.
func (b *Buffer) Between(r Range) []Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lo := sort.Search(len(b.samples), func(i int) bool {
		return !b.samples[i].Time.Before(r.From)
	})
	hi := sort.Search(len(b.samples), func(i int) bool {
		return b.samples[i].Time.After(r.To)
	})
	if lo >= hi {
		return nil
	}

	out := make([]Sample, hi-lo)
	copy(out, b.samples[lo:hi])

	return out
}
