package supervisor

import (
	"time"

	"github.com/PetLucy/LunaHR-Linux/internal/errors"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

const (
	defaultStallAfter        = 30 * time.Second
	defaultWatchdogTick      = 5 * time.Second
	defaultReconnectBudget   = 180 * time.Second
	defaultReconnectCooldown = 15 * time.Second
	defaultHeartbeatEvery    = 60 * time.Second
	defaultViewTick          = time.Second
)

type Config struct {
	// StallAfter is the silent-stream age that trips the watchdog
	StallAfter time.Duration
	// WatchdogTick paces stall and budget checks
	WatchdogTick time.Duration
	// ReconnectBudget bounds a whole reconnect cycle
	ReconnectBudget time.Duration
	// ReconnectCooldown is the minimum spacing between attempts
	ReconnectCooldown time.Duration
	// HeartbeatEvery paces the liveness summary log line
	HeartbeatEvery time.Duration
	// ViewTick paces the view's snap-back checks
	ViewTick time.Duration
	// View tunes the live view over the sample log
	View telemetry.ViewConfig
}

func DefaultConfig() Config {
	return Config{
		StallAfter:        defaultStallAfter,
		WatchdogTick:      defaultWatchdogTick,
		ReconnectBudget:   defaultReconnectBudget,
		ReconnectCooldown: defaultReconnectCooldown,
		HeartbeatEvery:    defaultHeartbeatEvery,
		ViewTick:          defaultViewTick,
		View:              telemetry.DefaultViewConfig(),
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	for name, d := range map[string]time.Duration{
		"stall_after":        c.StallAfter,
		"watchdog_tick":      c.WatchdogTick,
		"reconnect_budget":   c.ReconnectBudget,
		"reconnect_cooldown": c.ReconnectCooldown,
		"heartbeat_every":    c.HeartbeatEvery,
		"view_tick":          c.ViewTick,
	} {
		if d <= 0 {
			return errFactory.WithData(ErrInvalidConfig, name)
		}
	}

	return c.View.Validate()
}
