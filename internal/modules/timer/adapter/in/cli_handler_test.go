package in_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	timerin "pomodoro/internal/modules/timer/adapter/in"
	"pomodoro/internal/modules/timer/dto"
)

type scriptedTimer struct {
	updates chan dto.SnapshotOutput
	start   dto.SnapshotOutput
	resets  int
}

func (s *scriptedTimer) Init(context.Context)                           {}
func (s *scriptedTimer) Start() (dto.SnapshotOutput, error)             { return s.start, nil }
func (s *scriptedTimer) Pause() (dto.SnapshotOutput, error)             { return dto.SnapshotOutput{}, nil }
func (s *scriptedTimer) Resume() (dto.SnapshotOutput, error)            { return dto.SnapshotOutput{}, nil }
func (s *scriptedTimer) Toggle() (dto.SnapshotOutput, error)            { return dto.SnapshotOutput{}, nil }
func (s *scriptedTimer) Snapshot() dto.SnapshotOutput                   { return s.start }
func (s *scriptedTimer) Close()                                         {}
func (s *scriptedTimer) Subscribe() (<-chan dto.SnapshotOutput, func()) { return s.updates, func() {} }
func (s *scriptedTimer) Reset() (dto.SnapshotOutput, error) {
	s.resets++
	return dto.SnapshotOutput{}, nil
}
func (s *scriptedTimer) SwitchPhase(dto.SwitchPhaseInput) (dto.SnapshotOutput, error) {
	return dto.SnapshotOutput{}, nil
}

func TestRunPrintsUntilCompletedAndReset(t *testing.T) {
	t.Parallel()
	timer := &scriptedTimer{
		updates: make(chan dto.SnapshotOutput, 4),
		start:   dto.SnapshotOutput{Phase: "focus", Mode: "running", DurationTotal: 60, Remaining: 60},
	}
	timer.updates <- dto.SnapshotOutput{Phase: "focus", Mode: "running", DurationTotal: 60, Remaining: 59}
	timer.updates <- dto.SnapshotOutput{Phase: "focus", Mode: "completed", DurationTotal: 60, Completions: 1}
	timer.updates <- dto.SnapshotOutput{Phase: "break", Mode: "idle", DurationTotal: 300, Remaining: 300, Completions: 1, ProgressKnown: true, TodayCount: 1, TodayMinutes: 1}

	var out strings.Builder
	require.NoError(t, timerin.NewCLIHandler(timer).Run(context.Background(), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[focus] running   01:00", lines[0])
	assert.Equal(t, "[focus] completed 00:00", lines[1])
	assert.Equal(t, "[break] idle      05:00  today 1 sessions / 1 min", lines[2])
}

func TestRunResetsOnCancel(t *testing.T) {
	t.Parallel()
	timer := &scriptedTimer{
		updates: make(chan dto.SnapshotOutput),
		start:   dto.SnapshotOutput{Phase: "focus", Mode: "running", DurationTotal: 1500, Remaining: 1500},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	require.NoError(t, timerin.NewCLIHandler(timer).Run(ctx, &out))
	assert.Equal(t, 1, timer.resets)
	assert.Contains(t, out.String(), "interrupted")
}
