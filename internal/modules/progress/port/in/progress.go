package in

import (
	"context"

	"pomodoro/internal/modules/progress/dto"
)

type Usecase interface {
	LogSession(ctx context.Context, input dto.LogSessionInput) (dto.RecordOutput, error)
	GetTodayProgress(ctx context.Context) (dto.ProgressOutput, error)
	GetHistory(ctx context.Context, input dto.HistoryInput) (dto.HistoryOutput, error)
	ListRecords(ctx context.Context, input dto.RecordsInput) ([]dto.RecordOutput, error)
}
