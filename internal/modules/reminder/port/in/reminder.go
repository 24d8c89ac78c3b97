package in

import (
	"context"

	"medita/internal/modules/reminder/dto"
)

type Usecase interface {
	Check(ctx context.Context) (dto.CheckOutput, error)
	// Run blocks until ctx is cancelled.
	Run(ctx context.Context) error
}
