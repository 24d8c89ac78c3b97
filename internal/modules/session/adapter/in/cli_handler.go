package in

import (
	"context"
	"time"

	sessiondto "medita/internal/modules/session/dto"
	sessionin "medita/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, plannedMinutes int, notes string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{PlannedMinutes: plannedMinutes, Notes: notes})
}

func (h CLIHandler) End(ctx context.Context, sessionID, notes string) (sessiondto.EndOutput, error) {
	return h.usecase.End(ctx, sessiondto.EndInput{SessionID: sessionID, Notes: notes})
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) Add(ctx context.Context, timestamp time.Time, duration time.Duration, notes string) (sessiondto.SessionOutput, error) {
	return h.usecase.Add(ctx, sessiondto.AddInput{
		Timestamp:       timestamp,
		DurationSeconds: int64(duration / time.Second),
		Notes:           notes,
	})
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) List(ctx context.Context, from, to time.Time) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx, sessiondto.ListInput{From: from, To: to})
}
