package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PetLucy/LunaHR-Linux/internal/supervisor"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

const bridgeQueueSize = 64

// StatusMsg mirrors a supervisor state transition or status line
type StatusMsg struct {
	State  supervisor.State
	Detail string
}

// AlertMsg carries a user-actionable failure
type AlertMsg struct {
	Text string
}

// SampleMsg carries one accepted heart rate sample
type SampleMsg struct {
	Sample telemetry.Sample
}

// RangeMsg carries a recomputed view range
type RangeMsg struct {
	Range      telemetry.Range
	FollowLive bool
}

// Bridge adapts the supervisor's collaborator interfaces into bubbletea
// messages. The supervisor calls in from its control goroutine; the UI
// drains the queue from the program's event loop. A full queue drops the
// message rather than stalling the pipeline — the UI repaints from the
// sample log, so a lost repaint trigger is harmless.
type Bridge struct {
	ch chan tea.Msg
}

func NewBridge() *Bridge {
	return &Bridge{ch: make(chan tea.Msg, bridgeQueueSize)}
}

// StateChanged implements supervisor.StatusSink
func (b *Bridge) StateChanged(state supervisor.State, detail string) {
	b.send(StatusMsg{State: state, Detail: detail})
}

// Alert implements supervisor.AlertSink
func (b *Bridge) Alert(text string) {
	b.send(AlertMsg{Text: text})
}

// SamplePushed implements supervisor.RenderSink
func (b *Bridge) SamplePushed(s telemetry.Sample) {
	b.send(SampleMsg{Sample: s})
}

// RangePushed implements supervisor.RenderSink
func (b *Bridge) RangePushed(r telemetry.Range, followLive bool) {
	b.send(RangeMsg{Range: r, FollowLive: followLive})
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

// awaitEvent hands the next queued message to the program
func awaitEvent(b *Bridge) tea.Cmd {
	return func() tea.Msg {
		return <-b.ch
	}
}
