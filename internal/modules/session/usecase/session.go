package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medita/internal/modules/session/domain"
	sessiondto "medita/internal/modules/session/dto"
	sessionin "medita/internal/modules/session/port/in"
	sessionout "medita/internal/modules/session/port/out"
	"medita/internal/modules/session/service"
	apperrors "medita/internal/platform/errors"
)

type Interactor struct {
	svc                   *service.SessionService
	activeStore           sessionout.ActiveSessionStore
	defaultPlannedMinutes int
}

func NewInteractor(svc *service.SessionService, activeStore sessionout.ActiveSessionStore, defaultPlannedMinutes int) sessionin.Usecase {
	if defaultPlannedMinutes <= 0 {
		defaultPlannedMinutes = 20
	}
	return &Interactor{svc: svc, activeStore: activeStore, defaultPlannedMinutes: defaultPlannedMinutes}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	if i.activeStore != nil {
		_, err := i.activeStore.LoadActive(ctx)
		if err == nil {
			return sessiondto.StartOutput{}, apperrors.ErrActiveSessionExists
		}
		if !errors.Is(err, apperrors.ErrNoActiveSession) {
			return sessiondto.StartOutput{}, err
		}
	}

	minutes := input.PlannedMinutes
	if minutes == 0 {
		minutes = i.defaultPlannedMinutes
	}
	active, err := i.svc.Start(ctx, int64(minutes)*60, input.Notes)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	if i.activeStore != nil {
		if err := i.activeStore.SaveActive(ctx, active); err != nil {
			return sessiondto.StartOutput{}, err
		}
	}
	return sessiondto.StartOutput{SessionID: active.SessionID, StartedAt: active.StartedAt, PlannedSeconds: active.PlannedSeconds}, nil
}

func (i *Interactor) End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error) {
	if i.activeStore == nil {
		return sessiondto.EndOutput{}, apperrors.ErrNoActiveSession
	}
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	if input.SessionID != "" && input.SessionID != active.SessionID {
		return sessiondto.EndOutput{}, fmt.Errorf("%w: session id mismatch", apperrors.ErrInvalidInput)
	}

	session, err := i.svc.End(ctx, active, input.Notes)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	if err := i.activeStore.ClearActive(ctx); err != nil {
		return sessiondto.EndOutput{}, err
	}
	return sessiondto.EndOutput{
		SessionID:       session.ID,
		Timestamp:       session.Timestamp,
		DurationSeconds: session.DurationSeconds,
		Notes:           session.Notes,
	}, nil
}

func (i *Interactor) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	if i.activeStore == nil {
		return sessiondto.ActiveSessionOutput{}, apperrors.ErrNoActiveSession
	}
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.ActiveSessionOutput{}, err
	}
	now := i.svc.Now()
	return sessiondto.ActiveSessionOutput{
		SessionID:        active.SessionID,
		StartedAt:        active.StartedAt,
		PlannedSeconds:   active.PlannedSeconds,
		ElapsedSeconds:   int64(active.Elapsed(now) / time.Second),
		RemainingSeconds: int64(active.Remaining(now) / time.Second),
		Notes:            active.Notes,
	}, nil
}

func (i *Interactor) Add(ctx context.Context, input sessiondto.AddInput) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Add(ctx, input.Timestamp, input.DurationSeconds, input.Notes)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) List(ctx context.Context, input sessiondto.ListInput) ([]sessiondto.SessionOutput, error) {
	if !input.From.IsZero() && !input.To.IsZero() && !input.From.Before(input.To) {
		return nil, fmt.Errorf("%w: from must be before to", apperrors.ErrInvalidInput)
	}
	sessions, err := i.svc.List(ctx, input.From, input.To)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toOutput(session))
	}
	return out, nil
}

func (i *Interactor) Exists(ctx context.Context, timestamp time.Time) (bool, error) {
	_, err := i.svc.FindByTimestamp(ctx, timestamp)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (i *Interactor) Revision(ctx context.Context) (int64, error) {
	return i.svc.Revision(ctx)
}

func toOutput(session domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:              session.ID,
		Timestamp:       session.Timestamp,
		DurationSeconds: session.DurationSeconds,
		Notes:           session.Notes,
	}
}
