// Package display renders session snapshots, either as a terminal
// dashboard or as log lines.
package display

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/session"
	"github.com/ayusman/gesturectl/internal/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// RecentSize is the number of history entries shown in the recent panel.
const RecentSize = 10

const (
	meterWidth = 20
	barWidth   = 12
	frameRate  = 60
)

// Controls is what the dashboard can ask of the running session.
type Controls interface {
	RequestScreenshot()
	SetEnabled(bool)
	IsEnabled() bool
}

type snapshotMsg state.Snapshot

type frameMsg time.Time

// Model is the dashboard's bubbletea model.
type Model struct {
	keys     KeyMap
	controls Controls
	width    int
	height   int

	snap state.Snapshot
	sys  SystemStats

	sample         func() SystemStats
	sysmonInterval time.Duration

	// Volume meter animation.
	spring    harmonica.Spring
	meter     float64
	meterVel  float64
	animating bool

	showHelp  bool
	help      string
	helpWidth int
}

// NewModel creates a dashboard model. controls may be nil.
func NewModel(controls Controls) Model {
	return Model{
		keys:           DefaultKeyMap(),
		controls:       controls,
		sample:         ReadSystemStats,
		sysmonInterval: DefaultSysmonInterval,
		spring:         harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 0.8),
	}
}

// Init starts system monitoring.
func (m Model) Init() tea.Cmd {
	return sysmonCmd(m.sysmonInterval, m.sample)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		first := m.snap.Seq == 0
		m.snap = state.Snapshot(msg)
		if first {
			m.meter = float64(m.snap.Volume)
			return m, nil
		}
		return m, m.animate()

	case frameMsg:
		return m.stepMeter()

	case sysmonMsg:
		m.sys = SystemStats(msg)
		return m, sysmonCmd(m.sysmonInterval, m.sample)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.Type == tea.KeyEsc:
			m.showHelp = false
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Screenshot):
		if m.controls != nil {
			m.controls.RequestScreenshot()
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.controls != nil {
			m.controls.SetEnabled(!m.controls.IsEnabled())
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		if m.help == "" || m.helpWidth != m.width {
			m.help = renderHelp(m.width)
			m.helpWidth = m.width
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) animate() tea.Cmd {
	if m.animating || m.settled() {
		return nil
	}
	m.animating = true
	return frameCmd()
}

func (m Model) stepMeter() (tea.Model, tea.Cmd) {
	target := float64(m.snap.Volume)
	m.meter, m.meterVel = m.spring.Update(m.meter, m.meterVel, target)
	if m.settled() {
		m.meter = target
		m.meterVel = 0
		m.animating = false
		return m, nil
	}
	return m, frameCmd()
}

func (m Model) settled() bool {
	return math.Abs(m.meter-float64(m.snap.Volume)) < 0.5 && math.Abs(m.meterVel) < 0.5
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.showHelp {
		return m.help + "\n" + StyleDimmed.Render("  ?/esc: close help")
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPlayer(),
		m.renderSystem(),
		m.renderGuide(),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderAnalytics(),
		m.renderRecent(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		top,
		bottom,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	status := "● ACTIVE"
	if !m.snap.Enabled {
		status = "○ DISABLED"
	}
	statusStr := lipgloss.NewStyle().Foreground(StatusColor(m.snap.Enabled)).Render(status)

	clock := ""
	if !m.snap.PublishedAt.IsZero() {
		clock = m.snap.PublishedAt.Format("15:04:05")
	}

	return StyleHeader.Render("GESTURECTL") + "  " + statusStr + "  " + StyleDimmed.Render(clock)
}

func (m Model) renderPlayer() string {
	playing := "⏸ Paused"
	if m.snap.Playing {
		playing = "▶ Playing"
	}
	category := m.snap.Category
	if category == "" {
		category = "Standby"
	}

	lines := []string{
		StyleTitle.Render("PLAYER"),
		StyleValue.Render(playing),
		"Pose: " + StyleValue.Render(category),
		"Vol:  " + renderMeter(m.meter, meterWidth) + fmt.Sprintf(" %3d%%", m.snap.Volume),
	}
	return StylePanel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderSystem() string {
	hand := lipgloss.NewStyle().Foreground(ColorDanger).Render("none")
	if m.snap.HandDetected {
		hand = lipgloss.NewStyle().Foreground(ColorHealthy).Render("detected")
	}

	lines := []string{
		StyleTitle.Render("SYSTEM"),
		fmt.Sprintf("Camera: %s", StyleValue.Render(fmt.Sprintf("%d fps", m.snap.FPS))),
		"Hand:   " + hand,
		fmt.Sprintf("CPU:    %s", StyleValue.Render(fmt.Sprintf("%5.1f%%", m.sys.CPU))),
		fmt.Sprintf("RAM:    %s", StyleValue.Render(fmt.Sprintf("%5.1f%%", m.sys.Memory))),
	}
	return StylePanel.Render(strings.Join(lines, "\n"))
}

var guide = []struct {
	pose string
	kind gesture.Kind
}{
	{"Open palm", gesture.Next},
	{"Fist", gesture.Previous},
	{"Thumb only", gesture.PlayPause},
	{"Four, no thumb", gesture.VolumeUp},
	{"Index-middle-ring", gesture.VolumeDown},
}

func (m Model) renderGuide() string {
	lines := []string{StyleTitle.Render("GESTURES")}
	for _, g := range guide {
		lines = append(lines, fmt.Sprintf("%-18s %s", g.pose, StyleDimmed.Render(g.kind.Label())))
	}
	return StylePanel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAnalytics() string {
	stats := m.snap.Stats

	mostUsed := "-"
	if k, ok := stats.MostUsed(); ok {
		mostUsed = k.Label()
	}

	lines := []string{
		StyleTitle.Render("ANALYTICS"),
		"Duration:  " + StyleValue.Render(formatDuration(stats.Duration(m.snap.PublishedAt))),
		"Total:     " + StyleValue.Render(fmt.Sprintf("%d", stats.Total)),
		"Most used: " + StyleValue.Render(mostUsed),
		"FPS:       " + StyleValue.Render(fmt.Sprintf("%d", m.snap.FPS)),
		"",
	}

	most := 0
	for _, k := range gesture.Kinds {
		if c := stats.Count(k); c > most {
			most = c
		}
	}
	for _, k := range gesture.Kinds {
		c := stats.Count(k)
		lines = append(lines, fmt.Sprintf("%-13s %s %d", k.Label(), renderBar(c, most, barWidth), c))
	}

	return StylePanel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderRecent() string {
	lines := []string{StyleTitle.Render("RECENT")}

	recent := Recent(m.snap.Stats.History, RecentSize)
	if len(recent) == 0 {
		lines = append(lines, StyleDimmed.Render("No actions yet"))
	}
	for _, e := range recent {
		lines = append(lines, StyleDimmed.Render(e.At.Format("15:04:05"))+"  "+StyleValue.Render(e.Label))
	}

	return StylePanel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return StyleDimmed.Render("  " + strings.Join(parts, "  "))
}

// Recent returns up to n history entries, newest first.
func Recent(history []session.Entry, n int) []session.Entry {
	if n > len(history) {
		n = len(history)
	}
	out := make([]session.Entry, 0, n)
	for i := len(history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, history[i])
	}
	return out
}

func renderMeter(level float64, width int) string {
	filled := int(math.Round(level / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	bar := lipgloss.NewStyle().Foreground(LevelColor(level)).Render(strings.Repeat("█", filled))
	return bar + StyleDimmed.Render(strings.Repeat("░", width-filled))
}

func renderBar(count, most, width int) string {
	filled := 0
	if most > 0 {
		filled = count * width / most
	}
	return lipgloss.NewStyle().Foreground(ColorAccent).Render(strings.Repeat("■", filled)) +
		strings.Repeat(" ", width-filled)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	mins := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, mins, s)
}

const helpMarkdown = `# gesturectl

Hold a pose in front of the camera to control media playback.

| Pose | Command | Fires |
|------|---------|-------|
| Open palm | Next song | once per pose |
| Fist | Previous song | once per pose |
| Thumb only | Play / pause | once per pose |
| Four fingers, no thumb | Volume up | repeatedly while held |
| Index, middle and ring | Volume down | repeatedly while held |

Any other hand shape is **standby** and does nothing. Holding a one-shot pose fires it once; switch to a different one-shot pose to re-arm it.

## Keys

- ` + "`space`" + ` take a screenshot
- ` + "`e`" + ` enable or disable gesture control
- ` + "`q`" + ` quit
`

func renderHelp(width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
