package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PetLucy/LunaHR-Linux/internal/supervisor"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

const (
	logTimeFormat = "2006-01-02 15:04:05"
	maxLogLines   = 500

	minViewSpan = time.Minute
	maxViewSpan = 6 * time.Hour

	// title, readout, status and notice rows above the chart
	headerLines = 4

	minChartHeight = 4
	minLogHeight   = 3
)

// Controller is the slice of the connection supervisor the interface
// drives.
type Controller interface {
	Connect()
	Disconnect()
	GoLive()
	Explore(r telemetry.Range)
}

// History is the read side of the sample log the interface repaints
// from.
type History interface {
	Between(r telemetry.Range) []telemetry.Sample
	Last() (telemetry.Sample, bool)
	Len() int
}

// Model is the root bubbletea model: one screen with a heart rate
// readout, the sample chart, and a scrollable sample log.
type Model struct {
	ctl     Controller
	history History
	bridge  *Bridge

	palette Palette
	styles  styles
	keys    keyMap
	help    help.Model
	logView viewport.Model

	width       int
	height      int
	chartHeight int
	ready       bool

	state        supervisor.State
	statusDetail string
	alert        string

	bpm     int
	haveBPM bool

	logLines []string

	rng        telemetry.Range
	followLive bool
}

func newModel(ctl Controller, history History, bridge *Bridge, theme string) Model {
	p := PaletteByName(theme)

	lv := viewport.New(0, 0)
	// The default viewport keymap binds d/u/f/b, which collide with the
	// control keys; keep only arrows and pgup/pgdown for the log.
	lv.KeyMap = viewport.KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}

	return Model{
		ctl:        ctl,
		history:    history,
		bridge:     bridge,
		palette:    p,
		styles:     newStyles(p),
		keys:       defaultKeyMap(),
		help:       help.New(),
		logView:    lv,
		state:      supervisor.StateIdle,
		followLive: true,
	}
}

func (m Model) Init() tea.Cmd {
	return awaitEvent(m.bridge)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StatusMsg:
		if msg.State == supervisor.StateConnecting && m.state != msg.State {
			m.alert = ""
		}
		m.state = msg.State
		m.statusDetail = msg.Detail
		return m, awaitEvent(m.bridge)

	case AlertMsg:
		m.alert = msg.Text
		return m, awaitEvent(m.bridge)

	case SampleMsg:
		m.bpm = msg.Sample.BPM
		m.haveBPM = true
		m.appendLog(msg.Sample)
		return m, awaitEvent(m.bridge)

	case RangeMsg:
		m.rng = msg.Range
		m.followLive = msg.FollowLive
		return m, awaitEvent(m.bridge)
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Connect):
		if m.state == supervisor.StateIdle {
			m.alert = ""
			m.ctl.Connect()
		}
		return m, nil

	case key.Matches(msg, m.keys.Disconnect):
		if m.state != supervisor.StateIdle {
			m.ctl.Disconnect()
		}
		return m, nil

	case key.Matches(msg, m.keys.GoLive):
		m.followLive = true
		m.ctl.GoLive()
		return m, nil

	case key.Matches(msg, m.keys.PanLeft):
		return m.explore(m.panned(-1)), nil

	case key.Matches(msg, m.keys.PanRight):
		return m.explore(m.panned(1)), nil

	case key.Matches(msg, m.keys.ZoomIn):
		return m.explore(m.zoomed(0.5)), nil

	case key.Matches(msg, m.keys.ZoomOut):
		return m.explore(m.zoomed(2)), nil

	case key.Matches(msg, m.keys.Theme):
		m.palette = m.palette.next()
		m.styles = newStyles(m.palette)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// panned shifts the current window by a quarter of its span
func (m Model) panned(dir int) telemetry.Range {
	r := m.rng
	if r.IsZero() {
		return r
	}

	step := time.Duration(dir) * (r.Duration() / 4)
	return telemetry.Range{From: r.From.Add(step), To: r.To.Add(step)}
}

// zoomed scales the window span by factor, anchored at its right edge
func (m Model) zoomed(factor float64) telemetry.Range {
	r := m.rng
	if r.IsZero() {
		return r
	}

	span := time.Duration(float64(r.Duration()) * factor)
	if span < minViewSpan {
		span = minViewSpan
	}
	if span > maxViewSpan {
		span = maxViewSpan
	}

	return telemetry.Range{From: r.To.Add(-span), To: r.To}
}

// explore adopts a manual window and reports the interaction. Explored
// ranges are never echoed back; only live updates and the snap-back
// arrive as RangeMsg.
func (m Model) explore(r telemetry.Range) Model {
	if r.IsZero() {
		return m
	}

	m.rng = r
	m.followLive = false
	m.ctl.Explore(r)
	return m
}

func (m *Model) appendLog(s telemetry.Sample) {
	line := fmt.Sprintf("%s %d bpm", s.Time.Format(logTimeFormat), s.BPM)
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}

	follow := m.logView.AtBottom()
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	if follow {
		m.logView.GotoBottom()
	}
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	m.help.Width = m.width
	helpH := lipgloss.Height(m.help.View(m.keys))

	avail := m.height - headerLines - helpH
	if avail < minChartHeight+minLogHeight+2 {
		avail = minChartHeight + minLogHeight + 2
	}

	logH := avail * 2 / 5
	if logH < minLogHeight+2 {
		logH = minLogHeight + 2
	}

	m.chartHeight = avail - logH
	if m.chartHeight < minChartHeight {
		m.chartHeight = minChartHeight
	}

	m.logView.Width = m.width - 2
	m.logView.Height = logH - 2
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	m.logView.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	sections := []string{
		m.titleLine(),
		m.readoutLine(),
		m.statusLine(),
		m.noticeLine(),
		m.chartView(),
		m.styles.logBox.Width(m.width - 2).Render(m.logView.View()),
		m.help.View(m.keys),
	}

	return strings.Join(sections, "\n")
}

func (m Model) titleLine() string {
	title := m.styles.title.Render("LunaHR")

	mode := "live"
	if !m.followLive {
		mode = "history"
	}
	tag := m.styles.dim.Render(mode)

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(tag)
	if gap < 1 {
		return title
	}

	return title + strings.Repeat(" ", gap) + tag
}

func (m Model) readoutLine() string {
	value := "--"
	if m.haveBPM {
		value = fmt.Sprintf("%d", m.bpm)
	}

	return m.styles.text.Render("Heart Rate: ") + m.styles.readout.Render(value+" bpm")
}

func (m Model) statusLine() string {
	line := "Status: " + titleCase(m.state.String())
	if m.statusDetail != "" {
		line += " (" + m.statusDetail + ")"
	}

	return m.styles.text.MaxWidth(m.width).Render(line)
}

func (m Model) noticeLine() string {
	if m.alert != "" {
		return m.styles.alert.MaxWidth(m.width).Render(m.alert)
	}
	if !m.followLive {
		return m.styles.dim.Render("viewing history, g returns to live")
	}

	return ""
}

func (m Model) chartView() string {
	return renderChart(m.history.Between(m.rng), m.rng, m.width, m.chartHeight, m.palette)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
