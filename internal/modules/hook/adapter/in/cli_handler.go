package in

import (
	"context"

	"pomodoro/internal/modules/hook/dto"
	hookin "pomodoro/internal/modules/hook/port/in"
)

type CLIHandler struct {
	usecase hookin.Usecase
}

func NewCLIHandler(usecase hookin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.HookInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
