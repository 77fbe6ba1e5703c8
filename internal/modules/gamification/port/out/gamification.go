package out

import (
	"context"

	"pomodoro/internal/modules/gamification/domain"
)

type ProfileStore interface {
	Load(ctx context.Context) (domain.Profile, error)
	Save(ctx context.Context, profile domain.Profile) error
}

// SessionHistory reads focus-session counts from the progress log.
type SessionHistory interface {
	Counts(ctx context.Context, weekStart string) (domain.Counts, error)
	Daily(ctx context.Context, days int) ([]domain.DayCount, error)
}
