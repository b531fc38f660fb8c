package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

var chartT0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func chartRange(span time.Duration) telemetry.Range {
	return telemetry.Range{From: chartT0, To: chartT0.Add(span)}
}

func rampSamples(n int, step time.Duration, startBPM int) []telemetry.Sample {
	samples := make([]telemetry.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, telemetry.Sample{
			Time: chartT0.Add(time.Duration(i) * step),
			BPM:  startBPM + i,
		})
	}
	return samples
}

func TestRenderChartDimensions(t *testing.T) {
	r := chartRange(time.Minute)
	samples := rampSamples(60, time.Second, 60)

	out := renderChart(samples, r, 60, 10, darkPalette)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 10)
	for i, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 60, "line %d overflows", i)
	}
}

func TestRenderChartPlotsInRangeSamples(t *testing.T) {
	r := chartRange(time.Minute)
	samples := rampSamples(60, time.Second, 60)

	out := renderChart(samples, r, 60, 10, darkPalette)

	dots := 0
	for _, ch := range out {
		if ch > 0x2800 && ch <= 0x28FF {
			dots++
		}
	}
	assert.Positive(t, dots, "expected braille dots for in-range samples")
}

func TestRenderChartIgnoresOutOfRangeSamples(t *testing.T) {
	r := chartRange(time.Minute)
	outside := []telemetry.Sample{
		{Time: chartT0.Add(-time.Hour), BPM: 70},
		{Time: chartT0.Add(2 * time.Hour), BPM: 80},
	}

	out := renderChart(outside, r, 60, 10, darkPalette)

	for _, ch := range out {
		assert.False(t, ch > 0x2800 && ch <= 0x28FF, "no dots expected, got %c", ch)
	}
}

func TestRenderChartPlaceholderWhenEmpty(t *testing.T) {
	out := renderChart(nil, chartRange(time.Minute), 60, 10, darkPalette)

	assert.Contains(t, out, "no samples yet")
	assert.Len(t, strings.Split(out, "\n"), 10)
}

func TestRenderChartPlaceholderForZeroRange(t *testing.T) {
	samples := rampSamples(5, time.Second, 70)

	out := renderChart(samples, telemetry.Range{}, 60, 10, darkPalette)

	assert.Contains(t, out, "no samples yet")
}

func TestRenderChartTimeAxisLabels(t *testing.T) {
	r := chartRange(time.Minute)
	samples := rampSamples(60, time.Second, 60)

	out := renderChart(samples, r, 70, 10, darkPalette)

	assert.Contains(t, out, r.From.Format("15:04:05"))
	assert.Contains(t, out, r.To.Format("15:04:05"))
	assert.Contains(t, out, r.From.Add(30*time.Second).Format("15:04:05"))
}

func TestRenderChartNarrowSkipsMidpointLabel(t *testing.T) {
	r := chartRange(time.Minute)
	samples := rampSamples(60, time.Second, 60)

	out := renderChart(samples, r, 30, 10, darkPalette)

	assert.Contains(t, out, r.From.Format("15:04:05"))
	assert.Contains(t, out, r.To.Format("15:04:05"))
	assert.NotContains(t, out, r.From.Add(30*time.Second).Format("15:04:05"))
}

func TestRenderChartTinySurface(t *testing.T) {
	samples := rampSamples(10, time.Second, 70)

	assert.NotPanics(t, func() {
		renderChart(samples, chartRange(time.Minute), 5, 2, darkPalette)
		renderChart(samples, chartRange(time.Minute), 0, 0, darkPalette)
	})
}

func TestBpmRangeEnforcesMinimumSpan(t *testing.T) {
	flat := []telemetry.Sample{
		{Time: chartT0, BPM: 72},
		{Time: chartT0.Add(time.Second), BPM: 72},
	}

	lo, hi := bpmRange(flat)

	assert.InDelta(t, chartMinSpan, hi-lo, 0.001)
	assert.Less(t, lo, 72.0)
	assert.Greater(t, hi, 72.0)
}

func TestBpmRangeNeverNegative(t *testing.T) {
	low := []telemetry.Sample{
		{Time: chartT0, BPM: 2},
		{Time: chartT0.Add(time.Second), BPM: 3},
	}

	lo, hi := bpmRange(low)

	assert.GreaterOrEqual(t, lo, 0.0)
	assert.InDelta(t, chartMinSpan, hi-lo, 0.001)
}

func TestBpmRangePadsExtremes(t *testing.T) {
	samples := []telemetry.Sample{
		{Time: chartT0, BPM: 60},
		{Time: chartT0.Add(time.Second), BPM: 160},
	}

	lo, hi := bpmRange(samples)

	assert.Less(t, lo, 60.0)
	assert.Greater(t, hi, 160.0)
}
