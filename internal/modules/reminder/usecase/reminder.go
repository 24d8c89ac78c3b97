package usecase

import (
	"context"

	reminderdto "medita/internal/modules/reminder/dto"
	reminderin "medita/internal/modules/reminder/port/in"
	"medita/internal/modules/reminder/service"
)

type Interactor struct {
	svc *service.ReminderService
}

func NewInteractor(svc *service.ReminderService) reminderin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Check(ctx context.Context) (reminderdto.CheckOutput, error) {
	fired, reason, err := i.svc.Check(ctx)
	if err != nil {
		return reminderdto.CheckOutput{}, err
	}
	out := reminderdto.CheckOutput{Fired: fired, Reason: string(reason)}
	if i.svc.Schedule().Enabled {
		out.NextFire = i.svc.NextFire()
	}
	return out, nil
}

func (i *Interactor) Run(ctx context.Context) error {
	return i.svc.Run(ctx)
}
