package in

import (
	"context"
	"fmt"
	"io"

	"pomodoro/internal/modules/timer/dto"
	timerin "pomodoro/internal/modules/timer/port/in"
)

// CLIHandler drives the timer without a terminal UI, printing progress lines to a writer.
type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Run starts one countdown and returns once it has completed and auto-reset,
// or when ctx ends. A cancelled run resets the timer and returns nil.
func (h CLIHandler) Run(ctx context.Context, w io.Writer) error {
	h.usecase.Init(ctx)
	updates, cancel := h.usecase.Subscribe()
	defer cancel()

	snap, err := h.usecase.Start()
	if err != nil {
		return err
	}
	baseline := snap.Completions
	lastMode := snap.Mode
	printLine(w, snap)

	for {
		select {
		case <-ctx.Done():
			if _, err := h.usecase.Reset(); err == nil {
				fmt.Fprintln(w, "interrupted, timer reset")
			}
			return nil
		case next, ok := <-updates:
			if !ok {
				return nil
			}
			if next.Mode != lastMode || next.Remaining%60 == 0 || next.LastError != snap.LastError {
				printLine(w, next)
			}
			lastMode = next.Mode
			snap = next
			if next.Completions > baseline && next.Mode == "idle" {
				return nil
			}
		}
	}
}

func printLine(w io.Writer, s dto.SnapshotOutput) {
	line := fmt.Sprintf("[%s] %-9s %02d:%02d", s.Phase, s.Mode, s.Remaining/60, s.Remaining%60)
	if s.ProgressKnown {
		line += fmt.Sprintf("  today %d sessions / %d min", s.TodayCount, s.TodayMinutes)
	}
	if s.LastError != "" {
		line += "  log failed: " + s.LastError
	}
	fmt.Fprintln(w, line)
}
