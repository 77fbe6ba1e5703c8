package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"pomodoro/internal/modules/hook/domain"
	"pomodoro/internal/modules/hook/dto"
	hookin "pomodoro/internal/modules/hook/port/in"
	"pomodoro/internal/modules/hook/service"
	"pomodoro/internal/platform/metrics"
)

type Interactor struct {
	svc     *service.HookService
	metrics *metrics.Recorder
	logger  zerolog.Logger
}

func NewInteractor(svc *service.HookService, recorder *metrics.Recorder, logger zerolog.Logger) hookin.Usecase {
	return &Interactor{svc: svc, metrics: recorder, logger: logger.With().Str("module", "hook").Logger()}
}

func (i *Interactor) List(ctx context.Context) ([]dto.HookInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Dispatch(ctx context.Context, input dto.DispatchInput) (dto.DispatchOutput, error) {
	out, err := i.svc.Dispatch(ctx, domain.Notification{
		Event:    domain.Event(input.Event),
		Phase:    input.Phase,
		Duration: input.Duration,
		Count:    input.Count,
		Minutes:  input.Minutes,
		Error:    input.Error,
		At:       input.At,
	})
	if err != nil {
		return dto.DispatchOutput{}, err
	}
	for _, name := range out.Delivered {
		i.metrics.HookDispatched(name, true)
	}
	for _, failure := range out.Failures {
		i.metrics.HookDispatched(failure.Hook, false)
		i.logger.Warn().Str("hook", failure.Hook).Str("event", input.Event).Str("error", failure.Error).Msg("hook dispatch failed")
	}
	return out, nil
}
