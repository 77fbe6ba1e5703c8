package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gamificationdto "pomodoro/internal/modules/gamification/dto"
	"pomodoro/internal/ui/theme"
)

// Port is the minimal interface this view needs from the gamification use-case.
type Port interface {
	Status(ctx context.Context) (gamificationdto.StatusOutput, error)
	Stats(ctx context.Context) (gamificationdto.StatsOutput, error)
}

// LoadedMsg carries a refreshed status and stats pair.
type LoadedMsg struct {
	Status gamificationdto.StatusOutput
	Stats  gamificationdto.StatsOutput
	Err    error
}

type Model struct {
	port    Port
	spinner spinner.Model
	loading bool
	loaded  bool
	status  gamificationdto.StatusOutput
	stats   gamificationdto.StatsOutput
	err     error
	width   int
	height  int
}

// New accepts a nil port; the view then explains that stats are unavailable.
func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp}
}

func (m *Model) Refresh() tea.Cmd {
	if m.port == nil {
		return nil
	}
	m.loading = true
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		status, err := port.Status(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		stats, err := port.Stats(ctx)
		return LoadedMsg{Status: status, Stats: stats, Err: err}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.loaded = true
			m.status = msg.Status
			m.stats = msg.Stats
		}
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch {
	case m.port == nil:
		return theme.Pane.Render(theme.Muted.Render("stats are only available with a local store (--local)"))
	case m.loading && !m.loaded:
		return theme.Pane.Render(m.spinner.View() + " loading stats")
	case m.err != nil && !m.loaded:
		return theme.Pane.Render(theme.Error.Render("stats: " + m.err.Error()))
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Level %d", m.status.Level)) + "  ")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d XP  (%d/%d, %.0f%%)", m.status.XP, m.status.XPProgress, m.status.XPNeeded, m.status.XPPercentage)) + "\n")
	sb.WriteString(fmt.Sprintf("streak %s days  (best %d)\n\n", theme.Hot.Render(fmt.Sprint(m.status.CurrentStreak)), m.status.LongestStreak))
	sb.WriteString(window("last 7 days", m.stats.Weekly) + "\n")
	sb.WriteString(window("last 30 days", m.stats.Monthly) + "\n\n")
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Achievements %d/%d", m.status.UnlockedCount, m.status.TotalAchievements)) + "\n")
	for _, a := range m.status.Achievements {
		line := fmt.Sprintf("%s %s  %s", a.Icon, a.Name, a.Description)
		if a.Unlocked {
			sb.WriteString(theme.Good.Render(line) + "\n")
		} else {
			sb.WriteString(theme.Muted.Render(line) + "\n")
		}
	}
	return theme.Pane.Render(sb.String())
}

func window(label string, w gamificationdto.WindowStats) string {
	return fmt.Sprintf("%-13s %3d sessions  %.1f/day  %.0f%% of days", label, w.Total, w.Average, w.CompletionRate)
}
