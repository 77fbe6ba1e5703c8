package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"pomodoro/internal/modules/progress/domain"
	"pomodoro/internal/modules/progress/dto"
	progressin "pomodoro/internal/modules/progress/port/in"
	"pomodoro/internal/modules/progress/service"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/metrics"
)

type Interactor struct {
	svc     *service.ProgressService
	metrics *metrics.Recorder
	logger  zerolog.Logger
}

func NewInteractor(svc *service.ProgressService, recorder *metrics.Recorder, logger zerolog.Logger) progressin.Usecase {
	return &Interactor{svc: svc, metrics: recorder, logger: logger.With().Str("module", "progress").Logger()}
}

func (i *Interactor) LogSession(ctx context.Context, input dto.LogSessionInput) (dto.RecordOutput, error) {
	duration := domain.DefaultDurationSeconds
	if input.Duration != nil {
		duration = *input.Duration
	}
	kind, err := domain.ParseKind(input.Kind)
	if err != nil {
		i.metrics.LogFailed("validation")
		return dto.RecordOutput{}, err
	}
	record, err := i.svc.Log(ctx, input.Timestamp, duration, kind)
	if err != nil {
		reason := "storage"
		if apperrors.IsValidation(err) {
			reason = "validation"
		}
		i.metrics.LogFailed(reason)
		i.logger.Warn().Err(err).Int("duration", duration).Str("reason", reason).Msg("session rejected")
		return dto.RecordOutput{}, err
	}
	i.metrics.SessionLogged(string(record.Kind))
	i.logger.Info().
		Str("id", record.ID).
		Str("date", record.Date).
		Int("duration", record.Duration).
		Str("kind", string(record.Kind)).
		Msg("session logged")
	return toRecordOutput(record), nil
}

func (i *Interactor) GetTodayProgress(ctx context.Context) (dto.ProgressOutput, error) {
	progress, err := i.svc.Today(ctx)
	if err != nil {
		i.logger.Error().Err(err).Msg("read today progress")
		return dto.ProgressOutput{}, err
	}
	i.metrics.ProgressQueried()
	return toProgressOutput(progress), nil
}

func (i *Interactor) GetHistory(ctx context.Context, input dto.HistoryInput) (dto.HistoryOutput, error) {
	days, err := i.svc.History(ctx, input.Days)
	if err != nil {
		return dto.HistoryOutput{}, err
	}
	i.metrics.ProgressQueried()
	out := dto.HistoryOutput{Days: make([]dto.ProgressOutput, 0, len(days))}
	for _, day := range days {
		out.Days = append(out.Days, toProgressOutput(day))
	}
	return out, nil
}

func (i *Interactor) ListRecords(ctx context.Context, input dto.RecordsInput) ([]dto.RecordOutput, error) {
	window, err := domain.NewDateRange(input.From, input.To)
	if err != nil {
		return nil, err
	}
	records, err := i.svc.Records(ctx, window)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordOutput, 0, len(records))
	for _, record := range records {
		out = append(out, toRecordOutput(record))
	}
	return out, nil
}

func toRecordOutput(r domain.Record) dto.RecordOutput {
	return dto.RecordOutput{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Duration:  r.Duration,
		Date:      r.Date,
		Kind:      string(r.Kind),
	}
}

func toProgressOutput(p domain.Progress) dto.ProgressOutput {
	return dto.ProgressOutput{Date: p.Date, Count: p.Count, Minutes: p.Minutes()}
}
