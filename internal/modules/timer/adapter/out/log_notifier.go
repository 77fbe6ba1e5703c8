package out

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	timerout "pomodoro/internal/modules/timer/port/out"
)

type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) timerout.Notifier {
	return LogNotifier{logger: logger}
}

func (n LogNotifier) Notify(_ context.Context, note timerout.Notification) error {
	event := n.logger.Info()
	if note.Event == timerout.EventLogFailed {
		event = n.logger.Warn().Str("error", note.Error)
	}
	event.
		Str("event", note.Event).
		Str("phase", note.Phase).
		Int("duration", note.Duration).
		Int("count", note.Count).
		Int("minutes", note.Minutes).
		Msg("timer notification")
	return nil
}

// MultiNotifier delivers to every notifier and joins their errors.
type MultiNotifier []timerout.Notifier

func (m MultiNotifier) Notify(ctx context.Context, note timerout.Notification) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
