package rssi

import (
	"sync"
	"time"

	"github.com/PetLucy/LunaHR-Linux/internal/logger"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

const (
	defaultMinInterval  = 60 * time.Second
	defaultProbeTimeout = 2 * time.Second
	defaultStaleAfter   = 90 * time.Second
)

type Config struct {
	// MinInterval is the shortest pause between two probes
	MinInterval time.Duration
	// ProbeTimeout bounds one discovery scan
	ProbeTimeout time.Duration
	// StaleAfter is the age past which a reading stops being reported
	StaleAfter time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinInterval:  defaultMinInterval,
		ProbeTimeout: defaultProbeTimeout,
		StaleAfter:   defaultStaleAfter,
	}
}

// Sampler measures signal strength of the connected monitor by short
// discovery scans, decoupled from the streaming connection. Probes are
// best effort: rate limited, at most one in flight, failures only logged.
type Sampler struct {
	cfg     Config
	scanner Scanner
	clock   telemetry.Clock

	mu          sync.Mutex
	inFlight    bool
	lastProbeAt time.Time
	last        Reading
	haveValue   bool
}

func New(cfg Config, scanner Scanner, clock telemetry.Clock) *Sampler {
	if cfg.MinInterval < 0 {
		cfg.MinInterval = defaultMinInterval
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}

	return &Sampler{
		cfg:     cfg,
		scanner: scanner,
		clock:   clock,
	}
}

// Request launches a probe for the device at address unless one is already
// in flight or the rate limit has not elapsed. It never blocks the caller.
func (s *Sampler) Request(address string) {
	s.mu.Lock()
	now := s.clock.Now()
	if s.inFlight || (!s.lastProbeAt.IsZero() && now.Sub(s.lastProbeAt) < s.cfg.MinInterval) {
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.lastProbeAt = now
	s.mu.Unlock()

	go s.probe(address)
}

// Current returns the last reading. ok is false when no probe has
// succeeded yet or the reading has gone stale.
func (s *Sampler) Current() (Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.haveValue {
		return Reading{}, false
	}
	if s.clock.Now().Sub(s.last.SampledAt) > s.cfg.StaleAfter {
		return s.last, false
	}

	return s.last, true
}

func (s *Sampler) probe(address string) {
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	found := make(chan int, 1)

	timer := time.AfterFunc(s.cfg.ProbeTimeout, func() {
		_ = s.scanner.StopScan()
	})
	defer timer.Stop()

	err := s.scanner.Scan(func(addr string, rssi int) {
		if addr != address {
			return
		}
		select {
		case found <- rssi:
		default:
		}
		_ = s.scanner.StopScan()
	})
	if err != nil {
		logger.Debug().Err(err).Msg("Signal probe scan failed")
	}

	select {
	case rssi := <-found:
		s.mu.Lock()
		s.last = Reading{RSSI: rssi, SampledAt: s.clock.Now()}
		s.haveValue = true
		s.mu.Unlock()
		logger.Debug().Int("rssi", rssi).Str("address", address).Msg("Signal quality sampled")
	default:
		logger.Debug().Str("address", address).Msg("Signal probe saw no advertisement")
	}
}
