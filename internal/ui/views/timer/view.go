package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "pomodoro/internal/modules/timer/dto"
	"pomodoro/internal/ui/theme"
)

// Model renders the countdown pane. It holds no timer logic; the parent feeds snapshots.
type Model struct {
	snap   timerdto.SnapshotOutput
	bar    progress.Model
	width  int
	height int
}

func New() Model {
	bar := progress.New(progress.WithSolidFill(string(theme.Red)), progress.WithoutPercentage())
	bar.Width = 40
	return Model{bar: bar}
}

func (m *Model) SetSnapshot(snap timerdto.SnapshotOutput) {
	m.snap = snap
	m.bar.FullColor = string(theme.PhaseColor(snap.Phase))
}

func (m Model) Snapshot() timerdto.SnapshotOutput { return m.snap }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.bar.Width = clamp(size.Width-12, 10, 60)
	}
	return m, nil
}

// Clock formats seconds as MM:SS.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Elapsed is the completed fraction of the current countdown.
func Elapsed(snap timerdto.SnapshotOutput) float64 {
	if snap.DurationTotal <= 0 {
		return 0
	}
	return float64(snap.DurationTotal-snap.Remaining) / float64(snap.DurationTotal)
}

func (m Model) View() string {
	phaseStyle := lipgloss.NewStyle().Foreground(theme.PhaseColor(m.snap.Phase)).Bold(true)
	label := "FOCUS"
	if m.snap.Phase == "break" {
		label = "BREAK"
	}

	var sb strings.Builder
	sb.WriteString(phaseStyle.Render(label) + "  " + theme.Muted.Render(modeLabel(m.snap.Mode)) + "\n\n")
	sb.WriteString(theme.Title.Render(Clock(m.snap.Remaining)) + "\n\n")
	sb.WriteString(m.bar.ViewAs(Elapsed(m.snap)) + "\n\n")
	sb.WriteString(m.todayLine() + "\n")
	if m.snap.LastError != "" {
		sb.WriteString(theme.Error.Render("last log failed: "+m.snap.LastError) + "\n")
	}

	pane := theme.PaneActive
	if m.snap.Mode == "running" {
		pane = pane.BorderForeground(theme.PhaseColor(m.snap.Phase))
	}
	box := pane.Render(sb.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) todayLine() string {
	if !m.snap.ProgressKnown {
		return theme.Muted.Render("today: --")
	}
	return fmt.Sprintf("today: %s sessions, %s minutes",
		theme.Hot.Render(fmt.Sprint(m.snap.TodayCount)),
		theme.Hot.Render(fmt.Sprint(m.snap.TodayMinutes)))
}

func modeLabel(mode string) string {
	switch mode {
	case "running":
		return "running"
	case "paused":
		return "paused"
	case "completed":
		return "done!"
	default:
		return "ready"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
