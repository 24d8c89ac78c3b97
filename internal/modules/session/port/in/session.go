package in

import (
	"context"
	"time"

	"medita/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	End(ctx context.Context, input dto.EndInput) (dto.EndOutput, error)
	GetActive(ctx context.Context) (dto.ActiveSessionOutput, error)
	Add(ctx context.Context, input dto.AddInput) (dto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, input dto.ListInput) ([]dto.SessionOutput, error)
	Exists(ctx context.Context, timestamp time.Time) (bool, error)
	Revision(ctx context.Context) (int64, error)
}
