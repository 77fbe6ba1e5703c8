package in

import (
	"context"

	"pomodoro/internal/modules/gamification/dto"
	gamificationin "pomodoro/internal/modules/gamification/port/in"
)

type CLIHandler struct {
	usecase gamificationin.Usecase
}

func NewCLIHandler(usecase gamificationin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Stats(ctx context.Context) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) Award(ctx context.Context, date string) (dto.AwardOutput, error) {
	return h.usecase.RecordSession(ctx, dto.RecordSessionInput{Date: date})
}
