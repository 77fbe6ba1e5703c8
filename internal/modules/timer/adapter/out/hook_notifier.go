package out

import (
	"context"
	"fmt"
	"strings"

	hookdto "pomodoro/internal/modules/hook/dto"
	hookin "pomodoro/internal/modules/hook/port/in"
	timerout "pomodoro/internal/modules/timer/port/out"
)

// HookNotifier forwards timer notifications to the registered external hooks.
type HookNotifier struct {
	hooks hookin.Usecase
}

func NewHookNotifier(hooks hookin.Usecase) timerout.Notifier {
	return HookNotifier{hooks: hooks}
}

func (n HookNotifier) Notify(ctx context.Context, note timerout.Notification) error {
	out, err := n.hooks.Dispatch(ctx, hookdto.DispatchInput{
		Event:    note.Event,
		Phase:    note.Phase,
		Duration: note.Duration,
		Count:    note.Count,
		Minutes:  note.Minutes,
		Error:    note.Error,
		At:       note.At,
	})
	if err != nil {
		return fmt.Errorf("dispatch hooks: %w", err)
	}
	if len(out.Failures) == 0 {
		return nil
	}
	names := make([]string, 0, len(out.Failures))
	for _, f := range out.Failures {
		names = append(names, f.Hook)
	}
	return fmt.Errorf("%d hook(s) failed: %s", len(out.Failures), strings.Join(names, ", "))
}
