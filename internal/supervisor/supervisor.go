package supervisor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PetLucy/LunaHR-Linux/internal/errors"
	"github.com/PetLucy/LunaHR-Linux/internal/logger"
	"github.com/PetLucy/LunaHR-Linux/internal/metrics"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
	"github.com/PetLucy/LunaHR-Linux/internal/transport"
)

const (
	eventQueueSize   = 32
	commandQueueSize = 16
)

type commandKind int

const (
	cmdConnect commandKind = iota
	cmdDisconnect
	cmdGoLive
	cmdExplore
)

type command struct {
	kind commandKind
	rng  telemetry.Range
}

// Deps carries the supervisor's collaborators. Status, Alerts, Render and
// Prober may be nil; the rest are required.
type Deps struct {
	Clock     telemetry.Clock
	Factory   transport.Factory
	Buffer    *telemetry.Buffer
	Publisher SamplePublisher
	Stats     metrics.Collector
	Prober    Prober
	Status    StatusSink
	Alerts    AlertSink
	Render    RenderSink
}

// Supervisor owns the connection lifecycle: it starts transport sessions,
// accepts their samples, watches for stalls, runs reconnect cycles and
// fans accepted samples out to the buffer, the view and the publisher.
// All state lives on the control loop; the public command surface only
// enqueues.
type Supervisor struct {
	cfg    Config
	clock  telemetry.Clock
	fab    transport.Factory
	buffer *telemetry.Buffer
	view   *telemetry.View
	pub    SamplePublisher
	prober Prober
	stats  metrics.Collector
	status StatusSink
	alerts AlertSink
	render RenderSink

	events chan transport.Event
	cmds   chan command

	// control-loop confined
	runCtx         context.Context
	state          State
	current        transport.Transport
	currentSession uuid.UUID
	deviceAddr     string
	lastSampleAt   time.Time
	cycleStartedAt time.Time
	lastAttemptAt  time.Time
	attemptPending bool
}

func New(cfg Config, deps Deps) (*Supervisor, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}
	for name, missing := range map[string]bool{
		"clock":     deps.Clock == nil,
		"factory":   deps.Factory == nil,
		"buffer":    deps.Buffer == nil,
		"publisher": deps.Publisher == nil,
		"stats":     deps.Stats == nil,
	} {
		if missing {
			return nil, errFactory.WithData(ErrMissingDependency, name)
		}
	}

	s := &Supervisor{
		cfg:    cfg,
		clock:  deps.Clock,
		fab:    deps.Factory,
		buffer: deps.Buffer,
		pub:    deps.Publisher,
		prober: deps.Prober,
		stats:  deps.Stats,
		status: deps.Status,
		alerts: deps.Alerts,
		render: deps.Render,
		events: make(chan transport.Event, eventQueueSize),
		cmds:   make(chan command, commandQueueSize),
	}

	view, err := telemetry.NewView(cfg.View, deps.Clock, s.pushRange)
	if err != nil {
		return nil, err
	}
	s.view = view

	return s, nil
}

// Run drives the control loop until ctx is cancelled
func (s *Supervisor) Run(ctx context.Context) error {
	s.runCtx = ctx

	watchdog := time.NewTicker(s.cfg.WatchdogTick)
	defer watchdog.Stop()
	heartbeat := time.NewTicker(s.cfg.HeartbeatEvery)
	defer heartbeat.Stop()
	viewTick := time.NewTicker(s.cfg.ViewTick)
	defer viewTick.Stop()

	s.setState(StateIdle, "ready")

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case cmd := <-s.cmds:
			s.handleCommand(cmd)
		case ev := <-s.events:
			s.handleEvent(ev)
		case <-watchdog.C:
			s.onWatchdogTick()
		case <-heartbeat.C:
			s.onHeartbeat()
		case <-viewTick.C:
			s.view.Tick()
		}
	}
}

// Connect asks the supervisor to open a session. Ignored unless idle.
func (s *Supervisor) Connect() {
	s.enqueue(command{kind: cmdConnect})
}

// Disconnect tears the current session down
func (s *Supervisor) Disconnect() {
	s.enqueue(command{kind: cmdDisconnect})
}

// GoLive pins the view back to the latest sample
func (s *Supervisor) GoLive() {
	s.enqueue(command{kind: cmdGoLive})
}

// Explore moves the view to a user-chosen range
func (s *Supervisor) Explore(r telemetry.Range) {
	s.enqueue(command{kind: cmdExplore, rng: r})
}

func (s *Supervisor) enqueue(cmd command) {
	select {
	case s.cmds <- cmd:
	default:
		logger.Warn().Msg("Command queue full, dropping command")
	}
}

func (s *Supervisor) handleCommand(cmd command) {
	switch cmd.kind {
	case cmdConnect:
		if s.state != StateIdle {
			logger.Debug().Str("state", s.state.String()).Msg("Connect ignored")
			return
		}
		s.setState(StateConnecting, "connect requested")
		s.startSession()
	case cmdDisconnect:
		if s.state == StateIdle {
			return
		}
		s.stopSession()
		s.clearCycle()
		s.lastSampleAt = time.Time{}
		s.setState(StateIdle, "disconnected")
	case cmdGoLive:
		s.view.GoLive()
	case cmdExplore:
		s.view.Explore(cmd.rng)
	}
}

func (s *Supervisor) handleEvent(ev transport.Event) {
	if ev.Session() != s.currentSession {
		logger.Debug().Str("session", ev.Session().String()).Msg("Discarding event from stale session")
		return
	}

	switch e := ev.(type) {
	case transport.SampleEvent:
		s.onSample(e.BPM)
	case transport.StatusEvent:
		s.onStatus(e.Status)
	case transport.IdentityEvent:
		s.deviceAddr = e.Address
		logger.Info().Str("address", e.Address).Msg("Device identified")
	}
}

// onSample accepts one reading: timestamp, record, render, publish. A
// sample observed while connecting or reconnecting is proof of recovery
// and moves the session to streaming first.
func (s *Supervisor) onSample(bpm int) {
	switch s.state {
	case StateConnecting, StateReconnecting:
		s.enterStreaming()
	case StateStreaming:
	default:
		return
	}

	sample := telemetry.Sample{Time: s.clock.Now(), BPM: bpm}
	s.lastSampleAt = sample.Time

	s.buffer.Append(sample)
	s.view.Observe(sample)
	s.pub.Publish(sample)
	s.stats.SampleAccepted()
	if s.render != nil {
		s.render.SamplePushed(sample)
	}
}

func (s *Supervisor) onStatus(st transport.Status) {
	line := st.String()

	switch st.Kind {
	case transport.StatusSearching, transport.StatusConnecting:
		logger.Info().Str("status", line).Msg("Transport status")
		s.notifyStatus(line)
	case transport.StatusConnected:
		if s.state == StateConnecting {
			s.enterStreaming()
			return
		}
		// While reconnecting, only flowing samples count as recovery
		logger.Info().Str("status", line).Msg("Transport status")
		s.notifyStatus(line)
	case transport.StatusError:
		s.onSessionEnd(st, true)
	case transport.StatusCancelled:
		s.onSessionEnd(st, false)
	}
}

// onSessionEnd handles a session's terminal status. Deliberate
// cancellation follows the same paths as a fault but never raises an
// alert.
func (s *Supervisor) onSessionEnd(st transport.Status, isFault bool) {
	detail := st.String()

	switch s.state {
	case StateConnecting:
		// An initial connect gets no automatic retry
		s.stopSession()
		s.lastSampleAt = time.Time{}
		if isFault {
			s.notifyAlert(detail)
		}
		s.setState(StateIdle, detail)
	case StateStreaming:
		logger.Warn().Str("status", detail).Msg("Session ended, reconnecting")
		s.beginReconnect(detail)
	case StateReconnecting:
		logger.Info().Str("status", detail).Msg("Reconnect attempt failed")
		s.notifyStatus(detail)
		s.scheduleAttempt()
	default:
		logger.Debug().Str("status", detail).Msg("Session status outside a session")
	}
}

func (s *Supervisor) onWatchdogTick() {
	switch s.state {
	case StateStreaming:
		if !s.lastSampleAt.IsZero() && s.clock.Now().Sub(s.lastSampleAt) > s.cfg.StallAfter {
			s.stats.StallDetected()
			logger.Warn().Time("last_sample_at", s.lastSampleAt).Msg("Stream stalled, reconnecting")
			s.beginReconnect("stream stalled")
		}
	case StateReconnecting:
		if s.budgetExceeded() {
			s.giveUp()
			return
		}
		if s.attemptPending && s.clock.Now().Sub(s.lastAttemptAt) >= s.cfg.ReconnectCooldown {
			s.executeAttempt()
		}
	}
}

// onHeartbeat logs the once-a-minute liveness summary and keeps the
// signal quality sampler fed.
func (s *Supervisor) onHeartbeat() {
	now := s.clock.Now()
	snap := s.stats.Snapshot()

	ev := logger.Info().
		Str("state", s.state.String()).
		Uint64("samples_accepted", snap.SamplesAccepted).
		Uint64("samples_published", snap.SamplesPublished).
		Uint64("publish_faults", snap.PublishFaults).
		Uint64("reconnects", snap.ReconnectsStarted)

	if s.lastSampleAt.IsZero() {
		ev = ev.Str("last_sample_age", "n/a")
	} else {
		ev = ev.Dur("last_sample_age", now.Sub(s.lastSampleAt))
	}

	if s.prober != nil {
		if reading, ok := s.prober.Current(); ok {
			ev = ev.Int("rssi", reading.RSSI)
		} else {
			ev = ev.Str("rssi", "n/a")
		}
	}

	ev.Msg("Pipeline heartbeat")

	s.maybeProbe()
}

// maybeProbe requests a signal quality probe. The probe scan shares the
// radio with the data connection, so it stays quiet outside streaming and
// while a silent stream is close to tripping the stall watchdog.
func (s *Supervisor) maybeProbe() {
	if s.prober == nil || s.deviceAddr == "" {
		return
	}
	if s.state != StateStreaming {
		return
	}
	if s.clock.Now().Sub(s.lastSampleAt) > s.cfg.StallAfter/2 {
		return
	}
	s.prober.Request(s.deviceAddr)
}

func (s *Supervisor) enterStreaming() {
	s.clearCycle()
	s.lastSampleAt = s.clock.Now()
	s.setState(StateStreaming, "receiving samples")
}

func (s *Supervisor) beginReconnect(reason string) {
	s.stopSession()
	s.lastSampleAt = time.Time{}
	s.cycleStartedAt = s.clock.Now()
	s.lastAttemptAt = time.Time{}
	s.attemptPending = false
	s.stats.ReconnectStarted()
	s.setState(StateReconnecting, reason)
	s.scheduleAttempt()
}

// scheduleAttempt lines up the next reconnect attempt: immediately when
// the cooldown has passed, deferred to a watchdog tick otherwise. A
// too-early attempt is deferred, never dropped.
func (s *Supervisor) scheduleAttempt() {
	if s.state != StateReconnecting {
		return
	}
	if s.budgetExceeded() {
		s.giveUp()
		return
	}

	if s.lastAttemptAt.IsZero() || s.clock.Now().Sub(s.lastAttemptAt) >= s.cfg.ReconnectCooldown {
		s.executeAttempt()
		return
	}

	if !s.attemptPending {
		s.attemptPending = true
		logger.Info().Dur("cooldown", s.cfg.ReconnectCooldown).Msg("Reconnect attempt deferred")
	}
}

func (s *Supervisor) executeAttempt() {
	s.attemptPending = false
	s.lastAttemptAt = s.clock.Now()
	s.stats.ReconnectAttempt()
	logger.Info().Dur("cycle_age", s.clock.Now().Sub(s.cycleStartedAt)).Msg("Reconnect attempt starting")
	s.startSession()
}

func (s *Supervisor) giveUp() {
	s.setState(StateGivingUp, "reconnect budget exhausted")
	s.stopSession()
	s.clearCycle()
	s.lastSampleAt = time.Time{}
	s.stats.GaveUp()
	s.notifyAlert("Unable to restore the heart rate connection, giving up")
	s.setState(StateIdle, "gave up")
}

func (s *Supervisor) budgetExceeded() bool {
	return !s.cycleStartedAt.IsZero() && s.clock.Now().Sub(s.cycleStartedAt) >= s.cfg.ReconnectBudget
}

func (s *Supervisor) clearCycle() {
	s.cycleStartedAt = time.Time{}
	s.lastAttemptAt = time.Time{}
	s.attemptPending = false
}

// startSession replaces the current transport session with a fresh one
func (s *Supervisor) startSession() {
	s.stopSession()

	t := s.fab(s.events)
	s.current = t
	s.currentSession = t.Session()
	s.stats.SessionStarted()
	logger.Debug().Str("session", s.currentSession.String()).Msg("Transport session starting")
	t.Start(s.runCtx)
}

// stopSession stops the current transport, waiting bounded for its loop
// to exit. Events it may still have queued are discarded by the session
// filter.
func (s *Supervisor) stopSession() {
	if s.current == nil {
		return
	}
	s.current.Stop()
	s.current = nil
	s.currentSession = uuid.Nil
}

func (s *Supervisor) shutdown() {
	logger.Debug().Msg("Supervisor stopping")
	s.stopSession()
	s.setState(StateIdle, "shutting down")
}

func (s *Supervisor) setState(st State, detail string) {
	if s.state != st {
		logger.Info().
			Str("from", s.state.String()).
			Str("to", st.String()).
			Str("detail", detail).
			Msg("State changed")
	}
	s.state = st
	if s.status != nil {
		s.status.StateChanged(st, detail)
	}
}

func (s *Supervisor) notifyStatus(line string) {
	if s.status != nil {
		s.status.StateChanged(s.state, line)
	}
}

func (s *Supervisor) notifyAlert(text string) {
	logger.Warn().Msg(text)
	if s.alerts != nil {
		s.alerts.Alert(text)
	}
}

func (s *Supervisor) pushRange(r telemetry.Range, followLive bool) {
	if s.render != nil {
		s.render.RangePushed(r, followLive)
	}
}
