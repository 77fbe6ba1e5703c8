package out

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	gamificationdto "pomodoro/internal/modules/gamification/dto"
	gamificationin "pomodoro/internal/modules/gamification/port/in"
	progressdto "pomodoro/internal/modules/progress/dto"
	progressin "pomodoro/internal/modules/progress/port/in"
	timerout "pomodoro/internal/modules/timer/port/out"
)

// LocalProgressClient logs straight into an in-process progress store.
type LocalProgressClient struct {
	progress     progressin.Usecase
	gamification gamificationin.Usecase
	logger       zerolog.Logger
}

func NewLocalProgressClient(progress progressin.Usecase, gamification gamificationin.Usecase, logger zerolog.Logger) timerout.ProgressClient {
	return &LocalProgressClient{progress: progress, gamification: gamification, logger: logger}
}

func (c *LocalProgressClient) LogSession(ctx context.Context, session timerout.SessionLog) error {
	timestamp := session.Timestamp.Format(time.RFC3339Nano)
	duration := session.Duration
	record, err := c.progress.LogSession(ctx, progressdto.LogSessionInput{
		Timestamp: &timestamp,
		Duration:  &duration,
		Kind:      session.Kind,
	})
	if err != nil {
		return err
	}
	if c.gamification != nil && record.Kind != "break" {
		if _, err := c.gamification.RecordSession(ctx, gamificationdto.RecordSessionInput{Date: record.Date}); err != nil {
			c.logger.Warn().Err(err).Msg("update gamification")
		}
	}
	return nil
}

func (c *LocalProgressClient) TodayProgress(ctx context.Context) (timerout.TodayProgress, error) {
	today, err := c.progress.GetTodayProgress(ctx)
	if err != nil {
		return timerout.TodayProgress{}, err
	}
	return timerout.TodayProgress{Count: today.Count, Minutes: today.Minutes}, nil
}
