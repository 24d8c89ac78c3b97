package in

import (
	"context"
	"time"

	statsdto "medita/internal/modules/stats/dto"
	statsin "medita/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Report(ctx context.Context, period string) (statsdto.ReportOutput, error) {
	return h.usecase.Report(ctx, statsdto.ReportInput{Period: period})
}

func (h CLIHandler) Calendar(ctx context.Context, year int, month time.Month) (statsdto.CalendarOutput, error) {
	return h.usecase.Calendar(ctx, statsdto.CalendarInput{Year: year, Month: month})
}
