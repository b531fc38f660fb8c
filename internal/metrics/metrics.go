package metrics

import (
	"sync"

	"github.com/PetLucy/LunaHR-Linux/internal/logger"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

type service struct {
	mu   sync.Mutex
	snap Snapshot
}

// No-op implementation
type noopCollector struct{}

// NewService returns a session stats collector. When disabled, recording
// goes to a no-op collector so call sites stay unconditional.
func NewService(enabled bool, clock telemetry.Clock) Collector {
	if !enabled {
		logger.Debug().Msg("Session stats disabled, using no-op collector")
		return &noopCollector{}
	}

	return &service{
		snap: Snapshot{StartedAt: clock.Now()},
	}
}

func (s *service) SampleAccepted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.SamplesAccepted++
}

func (s *service) SamplePublished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.SamplesPublished++
}

func (s *service) PublishFault() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.PublishFaults++
}

func (s *service) PublishDropped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.PublishDropped++
}

func (s *service) SessionStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.SessionsStarted++
}

func (s *service) ReconnectStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ReconnectsStarted++
}

func (s *service) ReconnectAttempt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ReconnectAttempts++
}

func (s *service) GaveUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.GiveUps++
}

func (s *service) StallDetected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.StallsDetected++
}

func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snap
}

// No-op implementation
func (*noopCollector) SampleAccepted()    {}
func (*noopCollector) SamplePublished()   {}
func (*noopCollector) PublishFault()      {}
func (*noopCollector) PublishDropped()    {}
func (*noopCollector) SessionStarted()    {}
func (*noopCollector) ReconnectStarted()  {}
func (*noopCollector) ReconnectAttempt()  {}
func (*noopCollector) GaveUp()            {}
func (*noopCollector) StallDetected()     {}
func (*noopCollector) Snapshot() Snapshot { return Snapshot{} }
