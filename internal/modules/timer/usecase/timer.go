package usecase

import (
	"context"

	"pomodoro/internal/modules/timer/domain"
	"pomodoro/internal/modules/timer/dto"
	timerin "pomodoro/internal/modules/timer/port/in"
	"pomodoro/internal/modules/timer/service"
)

type Interactor struct {
	driver *service.Driver
}

func NewInteractor(driver *service.Driver) timerin.Usecase {
	return &Interactor{driver: driver}
}

func (i *Interactor) Init(ctx context.Context) {
	i.driver.Init(ctx)
}

func (i *Interactor) Start() (dto.SnapshotOutput, error) {
	return output(i.driver.Start())
}

func (i *Interactor) Pause() (dto.SnapshotOutput, error) {
	return output(i.driver.Pause())
}

func (i *Interactor) Resume() (dto.SnapshotOutput, error) {
	return output(i.driver.Resume())
}

func (i *Interactor) Reset() (dto.SnapshotOutput, error) {
	return output(i.driver.Reset())
}

func (i *Interactor) Toggle() (dto.SnapshotOutput, error) {
	return output(i.driver.Toggle())
}

func (i *Interactor) SwitchPhase(input dto.SwitchPhaseInput) (dto.SnapshotOutput, error) {
	return output(i.driver.SwitchPhase(domain.Phase(input.Phase)))
}

func (i *Interactor) Snapshot() dto.SnapshotOutput {
	return toOutput(i.driver.Snapshot())
}

func (i *Interactor) Subscribe() (<-chan dto.SnapshotOutput, func()) {
	src, cancel := i.driver.Subscribe()
	dst := make(chan dto.SnapshotOutput, 1)
	go func() {
		defer close(dst)
		for snap := range src {
			out := toOutput(snap)
			select {
			case dst <- out:
			default:
				select {
				case <-dst:
				default:
				}
				dst <- out
			}
		}
	}()
	return dst, cancel
}

func (i *Interactor) Close() {
	i.driver.Close()
}

func output(snap service.Snapshot, err error) (dto.SnapshotOutput, error) {
	return toOutput(snap), err
}

func toOutput(snap service.Snapshot) dto.SnapshotOutput {
	return dto.SnapshotOutput{
		Phase:         string(snap.State.Phase),
		Mode:          string(snap.State.Mode),
		DurationTotal: snap.State.DurationTotal,
		Remaining:     snap.State.Remaining,
		ProgressKnown: snap.ProgressKnown,
		TodayCount:    snap.Today.Count,
		TodayMinutes:  snap.Today.Minutes,
		Completions:   snap.Completions,
		LastError:     snap.LastError,
	}
}
