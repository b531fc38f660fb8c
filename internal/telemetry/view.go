package telemetry

import (
	"time"

	"github.com/PetLucy/LunaHR-Linux/internal/errors"
	"github.com/PetLucy/LunaHR-Linux/internal/logger"
)

// View decides which slice of the sample log is visible. While following
// live data the range is pinned to the latest sample; a user interaction
// detaches it, and an inactivity timeout snaps it back. All methods are
// called from the supervisor control loop only.
type View struct {
	cfg   ViewConfig
	clock Clock
	push  PushFunc

	followLive      bool
	lastInteraction time.Time
	lastSample      Sample
	haveSample      bool
	current         Range
	pushing         bool
}

func NewView(cfg ViewConfig, clock Clock, push PushFunc) (*View, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.New().Wrap(ErrInvalidConfig, err)
	}

	return &View{
		cfg:        cfg,
		clock:      clock,
		push:       push,
		followLive: true,
	}, nil
}

// Observe records the newest accepted sample and, while following live
// data, slides the visible range to end at it.
func (v *View) Observe(s Sample) {
	v.lastSample = s
	v.haveSample = true

	if v.followLive {
		v.recompute()
	}
}

// Explore records a user-chosen range and stops following live data.
// Calls made while a programmatic range push is being delivered are
// ignored, so a rendering surface echoing pushes back does not flip the
// view out of live mode.
func (v *View) Explore(r Range) {
	if v.pushing {
		return
	}

	v.followLive = false
	v.lastInteraction = v.clock.Now()
	v.current = r
}

// GoLive resumes following live data immediately
func (v *View) GoLive() {
	v.followLive = true
	v.lastInteraction = time.Time{}

	if v.haveSample {
		v.recompute()
	}
}

// Tick checks the snap-back timeout. Called on a coarse cadence; an
// exploring view with no interaction for the configured duration returns
// to following live data.
func (v *View) Tick() {
	if v.followLive {
		return
	}
	if v.clock.Now().Sub(v.lastInteraction) >= v.cfg.SnapBack {
		logger.Debug().Msg("View snapped back to live")
		v.GoLive()
	}
}

// FollowLive reports whether the view is pinned to the latest sample
func (v *View) FollowLive() bool {
	return v.followLive
}

// Current returns the visible range
func (v *View) Current() Range {
	return v.current
}

func (v *View) recompute() {
	to := v.lastSample.Time
	v.current = Range{From: to.Add(-v.cfg.Window), To: to}

	if v.push != nil {
		v.pushing = true
		v.push(v.current, v.followLive)
		v.pushing = false
	}
}
