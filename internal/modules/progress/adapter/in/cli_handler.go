package in

import (
	"context"

	"pomodoro/internal/modules/progress/dto"
	progressin "pomodoro/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Log(ctx context.Context, input dto.LogSessionInput) (dto.RecordOutput, error) {
	return h.usecase.LogSession(ctx, input)
}

func (h CLIHandler) Today(ctx context.Context) (dto.ProgressOutput, error) {
	return h.usecase.GetTodayProgress(ctx)
}

func (h CLIHandler) History(ctx context.Context, days int) (dto.HistoryOutput, error) {
	return h.usecase.GetHistory(ctx, dto.HistoryInput{Days: days})
}
