package in

import (
	"context"

	"pomodoro/internal/modules/timer/dto"
)

type Usecase interface {
	Init(ctx context.Context)
	Start() (dto.SnapshotOutput, error)
	Pause() (dto.SnapshotOutput, error)
	Resume() (dto.SnapshotOutput, error)
	Reset() (dto.SnapshotOutput, error)
	Toggle() (dto.SnapshotOutput, error)
	SwitchPhase(input dto.SwitchPhaseInput) (dto.SnapshotOutput, error)
	Snapshot() dto.SnapshotOutput
	// Subscribe delivers the latest snapshot after every transition. Slow readers skip intermediate values.
	Subscribe() (<-chan dto.SnapshotOutput, func())
	Close()
}
