package out

import (
	"context"
	"time"

	sessiondto "medita/internal/modules/session/dto"
	sessionin "medita/internal/modules/session/port/in"
	"medita/internal/modules/transfer/domain"
	transferout "medita/internal/modules/transfer/port/out"
)

type SessionBridge struct {
	sessions sessionin.Usecase
}

func NewSessionBridge(sessions sessionin.Usecase) transferout.SessionGateway {
	return &SessionBridge{sessions: sessions}
}

func (b *SessionBridge) ListAll(ctx context.Context) ([]domain.Record, error) {
	items, err := b.sessions.List(ctx, sessiondto.ListInput{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Record, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Record{Timestamp: item.Timestamp, DurationSeconds: item.DurationSeconds, Notes: item.Notes})
	}
	return out, nil
}

func (b *SessionBridge) Exists(ctx context.Context, timestamp time.Time) (bool, error) {
	return b.sessions.Exists(ctx, timestamp)
}

func (b *SessionBridge) Add(ctx context.Context, record domain.Record) error {
	_, err := b.sessions.Add(ctx, sessiondto.AddInput{
		Timestamp:       record.Timestamp,
		DurationSeconds: record.DurationSeconds,
		Notes:           record.Notes,
	})
	return err
}
