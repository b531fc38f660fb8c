package metrics

import "time"

// Collector counts what happened during a run. Implementations are safe
// for concurrent use; the supervisor and the publisher both record into it.
type Collector interface {
	SampleAccepted()
	SamplePublished()
	PublishFault()
	PublishDropped()
	SessionStarted()
	ReconnectStarted()
	ReconnectAttempt()
	GaveUp()
	StallDetected()
	Snapshot() Snapshot
}

// Snapshot is a point-in-time copy of the session counters
type Snapshot struct {
	StartedAt         time.Time
	SamplesAccepted   uint64
	SamplesPublished  uint64
	PublishFaults     uint64
	PublishDropped    uint64
	SessionsStarted   uint64
	ReconnectsStarted uint64
	ReconnectAttempts uint64
	GiveUps           uint64
	StallsDetected    uint64
}
