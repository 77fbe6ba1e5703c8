package out

import (
	"context"

	"pomodoro/internal/modules/gamification/domain"
	gamificationout "pomodoro/internal/modules/gamification/port/out"
	progressdto "pomodoro/internal/modules/progress/dto"
	progressin "pomodoro/internal/modules/progress/port/in"
)

// ProgressHistoryAdapter answers gamification queries from the progress log.
type ProgressHistoryAdapter struct {
	progress progressin.Usecase
}

func NewProgressHistoryAdapter(progress progressin.Usecase) gamificationout.SessionHistory {
	return &ProgressHistoryAdapter{progress: progress}
}

func (a *ProgressHistoryAdapter) Counts(ctx context.Context, weekStart string) (domain.Counts, error) {
	records, err := a.progress.ListRecords(ctx, progressdto.RecordsInput{})
	if err != nil {
		return domain.Counts{}, err
	}
	counts := domain.Counts{}
	for _, record := range records {
		if record.Kind == "break" {
			continue
		}
		counts.Total++
		if record.Date >= weekStart {
			counts.ThisWeek++
		}
	}
	return counts, nil
}

func (a *ProgressHistoryAdapter) Daily(ctx context.Context, days int) ([]domain.DayCount, error) {
	history, err := a.progress.GetHistory(ctx, progressdto.HistoryInput{Days: days})
	if err != nil {
		return nil, err
	}
	out := make([]domain.DayCount, 0, len(history.Days))
	for _, day := range history.Days {
		out = append(out, domain.DayCount{Date: day.Date, Count: day.Count})
	}
	return out, nil
}
