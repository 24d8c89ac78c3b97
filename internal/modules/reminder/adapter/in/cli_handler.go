package in

import (
	"context"

	reminderdto "medita/internal/modules/reminder/dto"
	reminderin "medita/internal/modules/reminder/port/in"
)

type CLIHandler struct {
	usecase reminderin.Usecase
}

func NewCLIHandler(usecase reminderin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context) (reminderdto.CheckOutput, error) {
	return h.usecase.Check(ctx)
}

func (h CLIHandler) Run(ctx context.Context) error {
	return h.usecase.Run(ctx)
}
