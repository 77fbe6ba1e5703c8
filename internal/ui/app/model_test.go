package app

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	timerdto "pomodoro/internal/modules/timer/dto"
	apperrors "pomodoro/internal/platform/errors"
)

type fakeTimer struct {
	snap    timerdto.SnapshotOutput
	updates chan timerdto.SnapshotOutput
	calls   []string
	fail    error
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{
		snap:    timerdto.SnapshotOutput{Phase: "focus", Mode: "idle", DurationTotal: 1500, Remaining: 1500},
		updates: make(chan timerdto.SnapshotOutput, 1),
	}
}

func (f *fakeTimer) Init(context.Context) {}

func (f *fakeTimer) do(name, mode string) (timerdto.SnapshotOutput, error) {
	f.calls = append(f.calls, name)
	if f.fail != nil {
		return timerdto.SnapshotOutput{}, f.fail
	}
	f.snap.Mode = mode
	return f.snap, nil
}

func (f *fakeTimer) Start() (timerdto.SnapshotOutput, error)  { return f.do("start", "running") }
func (f *fakeTimer) Pause() (timerdto.SnapshotOutput, error)  { return f.do("pause", "paused") }
func (f *fakeTimer) Resume() (timerdto.SnapshotOutput, error) { return f.do("resume", "running") }
func (f *fakeTimer) Reset() (timerdto.SnapshotOutput, error)  { return f.do("reset", "idle") }
func (f *fakeTimer) Toggle() (timerdto.SnapshotOutput, error) { return f.do("toggle", "running") }

func (f *fakeTimer) SwitchPhase(in timerdto.SwitchPhaseInput) (timerdto.SnapshotOutput, error) {
	f.snap.Phase = in.Phase
	return f.do("switch:"+in.Phase, "idle")
}

func (f *fakeTimer) Snapshot() timerdto.SnapshotOutput { return f.snap }

func (f *fakeTimer) Subscribe() (<-chan timerdto.SnapshotOutput, func()) {
	return f.updates, func() {}
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	var msg tea.KeyMsg
	if keys == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestKeysDriveTimer(t *testing.T) {
	t.Parallel()
	timer := newFakeTimer()
	m := NewModel(timer, nil)

	m = press(t, m, " ")
	m = press(t, m, "b")
	m = press(t, m, "r")

	want := []string{"toggle", "switch:break", "reset"}
	if fmt.Sprint(timer.calls) != fmt.Sprint(want) {
		t.Fatalf("expected calls %v, got %v", want, timer.calls)
	}
	if m.status != "break idle" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if got := m.timerView.Snapshot().Phase; got != "break" {
		t.Fatalf("expected view to mirror break phase, got %q", got)
	}
}

func TestRejectedTransitionOnlyUpdatesStatus(t *testing.T) {
	t.Parallel()
	timer := newFakeTimer()
	timer.fail = fmt.Errorf("%w: pause while idle", apperrors.ErrInvalidTransition)
	m := NewModel(timer, nil)

	next, _ := m.executePalette("timer:pause")
	m = next.(Model)
	if m.status != "not now: pause while idle" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.timerView.Snapshot().Mode != "idle" {
		t.Fatalf("snapshot should be unchanged, got %+v", m.timerView.Snapshot())
	}
}

func TestSnapshotMessageTracksCompletions(t *testing.T) {
	t.Parallel()
	timer := newFakeTimer()
	m := NewModel(timer, nil)

	next, cmd := m.Update(snapshotMsg{snap: timerdto.SnapshotOutput{Phase: "focus", Mode: "completed", Completions: 1}, ok: true})
	m = next.(Model)
	if m.completions != 1 || m.status != "focus complete" {
		t.Fatalf("expected completion to be recorded, got completions=%d status=%q", m.completions, m.status)
	}
	if cmd == nil {
		t.Fatalf("expected a follow-up command to keep listening for snapshots")
	}
}

func TestUnknownPaletteCommand(t *testing.T) {
	t.Parallel()
	m := NewModel(newFakeTimer(), nil)
	next, _ := m.executePalette("timer:explode")
	if got := next.(Model).status; got != "unknown command: timer:explode" {
		t.Fatalf("unexpected status %q", got)
	}
}
