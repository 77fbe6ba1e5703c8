package in

import (
	"context"

	"pomodoro/internal/modules/gamification/dto"
)

type Usecase interface {
	RecordSession(ctx context.Context, input dto.RecordSessionInput) (dto.AwardOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
}
