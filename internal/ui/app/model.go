package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gamificationdto "pomodoro/internal/modules/gamification/dto"
	timerdto "pomodoro/internal/modules/timer/dto"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/ui/components"
	"pomodoro/internal/ui/theme"
	statsview "pomodoro/internal/ui/views/stats"
	timerview "pomodoro/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	Init(ctx context.Context)
	Start() (timerdto.SnapshotOutput, error)
	Pause() (timerdto.SnapshotOutput, error)
	Resume() (timerdto.SnapshotOutput, error)
	Reset() (timerdto.SnapshotOutput, error)
	Toggle() (timerdto.SnapshotOutput, error)
	SwitchPhase(input timerdto.SwitchPhaseInput) (timerdto.SnapshotOutput, error)
	Snapshot() timerdto.SnapshotOutput
	Subscribe() (<-chan timerdto.SnapshotOutput, func())
}

type statsPort interface {
	Status(ctx context.Context) (gamificationdto.StatusOutput, error)
	Stats(ctx context.Context) (gamificationdto.StatsOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Stats"}

// ─── async messages ──────────────────────────────────────────────────────────

type snapshotMsg struct {
	snap timerdto.SnapshotOutput
	ok   bool
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Toggle  key.Binding
	Reset   key.Binding
	Focus   key.Binding
	Break   key.Binding
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Focus:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
		Break:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "break")),
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset},
		{k.Focus, k.Break},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Timer state lives in the driver behind
// timerPort; the model only mirrors the snapshots it publishes.
type Model struct {
	timer       timerPort
	updates     <-chan timerdto.SnapshotOutput
	unsubscribe func()

	timerView timerview.Model
	statsView statsview.Model

	activeTab   tabID
	keys        keyMap
	help        help.Model
	showHelp    bool
	palette     components.Palette
	completions int
	status      string
	width       int
	height      int
}

// NewModel subscribes to timer snapshots immediately. stats may be nil.
func NewModel(timer timerPort, stats statsPort) Model {
	updates, unsubscribe := timer.Subscribe()
	tv := timerview.New()
	snap := timer.Snapshot()
	tv.SetSnapshot(snap)

	var port statsview.Port
	if stats != nil {
		port = stats
	}
	return Model{
		timer:       timer,
		updates:     updates,
		unsubscribe: unsubscribe,
		timerView:   tv,
		statsView:   statsview.New(port),
		activeTab:   tabTimer,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		completions: snap.Completions,
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initTimerCmd(), m.waitForSnapshot(), m.statsView.Refresh())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case snapshotMsg:
		if !msg.ok {
			return m, nil
		}
		m.timerView.SetSnapshot(msg.snap)
		if msg.snap.Completions > m.completions {
			m.completions = msg.snap.Completions
			m.status = msg.snap.Phase + " complete"
			cmds = append(cmds, m.statsView.Refresh())
		}
		cmds = append(cmds, m.waitForSnapshot())
		return m, tea.Batch(cmds...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.unsubscribe()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Toggle):
			m.apply(m.timer.Toggle())
		case key.Matches(msg, m.keys.Reset):
			m.apply(m.timer.Reset())
		case key.Matches(msg, m.keys.Focus):
			m.apply(m.timer.SwitchPhase(timerdto.SwitchPhaseInput{Phase: "focus"}))
		case key.Matches(msg, m.keys.Break):
			m.apply(m.timer.SwitchPhase(timerdto.SwitchPhaseInput{Phase: "break"}))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.statsView, cmd = m.statsView.Update(msg)
	return m, cmd
}

// apply mirrors a synchronous transition result; rejected triggers only update the status line.
func (m *Model) apply(snap timerdto.SnapshotOutput, err error) {
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			m.status = "not now: " + strings.TrimPrefix(err.Error(), apperrors.ErrInvalidTransition.Error()+": ")
			return
		}
		m.status = err.Error()
		return
	}
	m.timerView.SetSnapshot(snap)
	m.status = snap.Phase + " " + snap.Mode
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabStats:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.statsView.View())
	default:
		content = m.timerView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "pomodoro  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	snap := m.timerView.Snapshot()
	left := m.status
	if snap.Mode == "running" {
		left = lipgloss.NewStyle().Foreground(theme.PhaseColor(snap.Phase)).Render("● "+timerview.Clock(snap.Remaining)) + "  " + left
	}
	right := theme.Muted.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	switch strings.TrimSpace(input) {
	case "":
		return m, nil
	case "timer:start":
		m.apply(m.timer.Start())
	case "timer:pause":
		m.apply(m.timer.Pause())
	case "timer:resume":
		m.apply(m.timer.Resume())
	case "timer:reset":
		m.apply(m.timer.Reset())
	case "phase:focus":
		m.apply(m.timer.SwitchPhase(timerdto.SwitchPhaseInput{Phase: "focus"}))
	case "phase:break":
		m.apply(m.timer.SwitchPhase(timerdto.SwitchPhaseInput{Phase: "break"}))
	case "stats:refresh":
		m.activeTab = tabStats
		return m, m.statsView.Refresh()
	default:
		m.status = fmt.Sprintf("unknown command: %s", input)
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) initTimerCmd() tea.Cmd {
	return func() tea.Msg {
		m.timer.Init(context.Background())
		return nil
	}
}

func (m Model) waitForSnapshot() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		snap, ok := <-updates
		return snapshotMsg{snap: snap, ok: ok}
	}
}
