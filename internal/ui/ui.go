// Package ui renders the live pipeline in the terminal: a heart rate
// readout, the connection status, a braille chart over the sample log,
// and the scrolling log itself. It follows the Elm shape bubbletea
// imposes: the supervisor's callbacks arrive through a Bridge as
// messages, keys translate into supervisor commands, and View repaints
// from the sample log.
package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Params bundles the collaborators the terminal interface runs against
type Params struct {
	Controller Controller
	History    History
	Bridge     *Bridge
	Theme      string
}

// Run drives the interface until the user quits or ctx is cancelled
func Run(ctx context.Context, p Params) error {
	prog := tea.NewProgram(
		newModel(p.Controller, p.History, p.Bridge, p.Theme),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := prog.Run(); err != nil {
		// Cancellation from outside (a signal) is a normal exit
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}

	return nil
}
