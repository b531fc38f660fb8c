package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the color set one theme paints the UI with.
type Palette struct {
	Name       string
	Foreground lipgloss.Color
	Dim        lipgloss.Color
	Border     lipgloss.Color
	// Accent colors the heart rate readout and the chart curve
	Accent lipgloss.Color
	Warn   lipgloss.Color
}

var darkPalette = Palette{
	Name:       "dark",
	Foreground: lipgloss.Color("#EAEAEA"),
	Dim:        lipgloss.Color("#666666"),
	Border:     lipgloss.Color("#444444"),
	Accent:     lipgloss.Color("#00D1FF"),
	Warn:       lipgloss.Color("#FFB454"),
}

var lightPalette = Palette{
	Name:       "light",
	Foreground: lipgloss.Color("#111111"),
	Dim:        lipgloss.Color("#8A8A8A"),
	Border:     lipgloss.Color("#CCCCCC"),
	Accent:     lipgloss.Color("#D12C2C"),
	Warn:       lipgloss.Color("#B45309"),
}

// PaletteByName resolves a configured theme name, defaulting to dark
func PaletteByName(name string) Palette {
	if strings.EqualFold(name, lightPalette.Name) {
		return lightPalette
	}
	return darkPalette
}

// next returns the other palette, for the runtime theme toggle
func (p Palette) next() Palette {
	if p.Name == darkPalette.Name {
		return lightPalette
	}
	return darkPalette
}

// styles bundles the lipgloss styles derived from a palette.
type styles struct {
	title   lipgloss.Style
	text    lipgloss.Style
	dim     lipgloss.Style
	readout lipgloss.Style
	alert   lipgloss.Style
	logBox  lipgloss.Style
}

func newStyles(p Palette) styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		text:    lipgloss.NewStyle().Foreground(p.Foreground),
		dim:     lipgloss.NewStyle().Foreground(p.Dim),
		readout: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		alert:   lipgloss.NewStyle().Bold(true).Foreground(p.Warn),
		logBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Border),
	}
}
