package telemetry

import (
	"time"

	"github.com/PetLucy/LunaHR-Linux/internal/errors"
)

const (
	defaultWindow   = 30 * time.Minute
	defaultSnapBack = 30 * time.Second
)

// ViewConfig tunes the live view over the sample log.
type ViewConfig struct {
	// Window is the span of the visible range while following live data
	Window time.Duration
	// SnapBack is how long after the last user interaction the view
	// returns to following live data
	SnapBack time.Duration
}

func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		Window:   defaultWindow,
		SnapBack: defaultSnapBack,
	}
}

func (c ViewConfig) Validate() error {
	errFactory := errors.New()
	if c.Window <= 0 {
		return errFactory.WithData(ErrInvalidWindow, c.Window.String())
	}
	if c.SnapBack <= 0 {
		return errFactory.WithData(ErrInvalidSnapBack, c.SnapBack.String())
	}
	return nil
}
