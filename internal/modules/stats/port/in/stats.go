package in

import (
	"context"

	"medita/internal/modules/stats/dto"
)

type Usecase interface {
	Report(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, error)
	Calendar(ctx context.Context, input dto.CalendarInput) (dto.CalendarOutput, error)
}
