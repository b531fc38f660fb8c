package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

const (
	chartYAxisWidth = 4
	// chartMinSpan keeps a near-flat heart rate from filling the whole
	// chart height with noise
	chartMinSpan = 10.0
)

// Braille cells pack a 2x4 dot grid; these are the per-dot bitmasks,
// indexed [column][row] top to bottom.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// renderChart plots the samples falling inside r as a braille-dot curve
// of the given cell dimensions, with bpm labels on the left and clock
// labels along the bottom. The output has exactly height lines.
func renderChart(samples []telemetry.Sample, r telemetry.Range, width, height int, p Palette) string {
	if width < 12 || height < 3 {
		return strings.Repeat("\n", clampInt(height-1, 0, height))
	}
	if len(samples) == 0 || r.IsZero() || r.Duration() <= 0 {
		return centerLines([]string{"no samples yet"}, width, height, newStyles(p).dim)
	}

	chartW := width - chartYAxisWidth - 1
	chartH := height - 1

	lo, hi := bpmRange(samples)

	dotsW := chartW * 2
	dotsH := chartH * 4
	grid := make([][]uint8, chartH)
	for row := range grid {
		grid[row] = make([]uint8, chartW)
	}

	span := r.Duration().Seconds()
	for _, s := range samples {
		if s.Time.Before(r.From) || s.Time.After(r.To) {
			continue
		}

		x := int(s.Time.Sub(r.From).Seconds() / span * float64(dotsW-1))
		frac := (float64(s.BPM) - lo) / (hi - lo)
		y := int((1 - frac) * float64(dotsH-1))

		x = clampInt(x, 0, dotsW-1)
		y = clampInt(y, 0, dotsH-1)
		grid[y/4][x/2] |= brailleBits[x%2][y%4]
	}

	axisStyle := lipgloss.NewStyle().Foreground(p.Dim)
	curveStyle := lipgloss.NewStyle().Foreground(p.Accent)

	lines := make([]string, 0, height)
	for row := 0; row < chartH; row++ {
		var rowVal float64
		if chartH == 1 {
			rowVal = (lo + hi) / 2
		} else {
			rowVal = hi - (hi-lo)*float64(row)/float64(chartH-1)
		}
		label := fmt.Sprintf("%*d", chartYAxisWidth, int(rowVal+0.5))

		var cells strings.Builder
		for col := 0; col < chartW; col++ {
			cells.WriteRune(rune(0x2800 + int(grid[row][col])))
		}

		lines = append(lines, axisStyle.Render(label)+" "+curveStyle.Render(cells.String()))
	}

	lines = append(lines, axisStyle.Render(timeAxis(r, chartW)))

	return strings.Join(lines, "\n")
}

// bpmRange picks the vertical bounds: the visible extremes padded a
// little, widened to at least chartMinSpan, never below zero.
func bpmRange(samples []telemetry.Sample) (float64, float64) {
	lo, hi := float64(samples[0].BPM), float64(samples[0].BPM)
	for _, s := range samples[1:] {
		v := float64(s.BPM)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	pad := (hi - lo) * 0.1
	lo -= pad
	hi += pad

	if hi-lo < chartMinSpan {
		mid := (hi + lo) / 2
		lo = mid - chartMinSpan/2
		hi = mid + chartMinSpan/2
	}
	if lo < 0 {
		hi -= lo
		lo = 0
	}

	return lo, hi
}

type axisMark struct {
	text string
	frac float64
}

// timeAxis lays clock labels under the chart: the range edges, plus the
// midpoint when there is room.
func timeAxis(r telemetry.Range, chartW int) string {
	marks := []axisMark{
		{r.From.Format("15:04:05"), 0},
		{r.To.Format("15:04:05"), 1},
	}
	if chartW >= 40 {
		mid := r.From.Add(r.Duration() / 2)
		marks = append(marks, axisMark{mid.Format("15:04:05"), 0.5})
	}

	axis := []byte(strings.Repeat(" ", chartYAxisWidth+1+chartW))
	for _, m := range marks {
		pos := chartYAxisWidth + 1 + int(m.frac*float64(chartW-1))
		start := clampInt(pos-len(m.text)/2, chartYAxisWidth+1, len(axis)-len(m.text))
		copy(axis[start:], m.text)
	}

	return strings.TrimRight(string(axis), " ")
}

// centerLines centers the given lines in a width x height block
func centerLines(content []string, width, height int, style lipgloss.Style) string {
	lines := make([]string, 0, height)
	topPad := (height - len(content)) / 2
	for i := 0; i < topPad; i++ {
		lines = append(lines, "")
	}
	for _, line := range content {
		leftPad := (width - lipgloss.Width(line)) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		lines = append(lines, strings.Repeat(" ", leftPad)+style.Render(line))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	return strings.Join(lines[:height], "\n")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
