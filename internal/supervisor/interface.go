package supervisor

import (
	"github.com/PetLucy/LunaHR-Linux/internal/rssi"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

// State is the connection lifecycle as the supervisor sees it
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StateReconnecting
	StateGivingUp
)

// String implements the Stringer interface
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateReconnecting:
		return "reconnecting"
	case StateGivingUp:
		return "giving up"
	default:
		return "unknown"
	}
}

// StatusSink observes state transitions and transport status lines
type StatusSink interface {
	StateChanged(state State, detail string)
}

// AlertSink receives the rare conditions that need the user's attention
type AlertSink interface {
	Alert(text string)
}

// RenderSink receives what the rendering surface should draw
type RenderSink interface {
	SamplePushed(s telemetry.Sample)
	RangePushed(r telemetry.Range, followLive bool)
}

// SamplePublisher forwards accepted samples downstream
type SamplePublisher interface {
	Publish(s telemetry.Sample)
}

// Prober requests signal quality probes and reports the last reading
type Prober interface {
	Request(address string)
	Current() (rssi.Reading, bool)
}
