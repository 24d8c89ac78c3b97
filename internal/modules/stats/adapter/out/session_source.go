package out

import (
	"context"

	sessiondto "medita/internal/modules/session/dto"
	sessionin "medita/internal/modules/session/port/in"
	"medita/internal/modules/stats/domain"
	statsout "medita/internal/modules/stats/port/out"
)

// SessionSource reads the snapshot through the session module's public port.
type SessionSource struct {
	sessions sessionin.Usecase
}

func NewSessionSource(sessions sessionin.Usecase) statsout.SessionSource {
	return &SessionSource{sessions: sessions}
}

func (s *SessionSource) ListAll(ctx context.Context) ([]domain.Session, error) {
	items, err := s.sessions.List(ctx, sessiondto.ListInput{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Session, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Session{Timestamp: item.Timestamp, DurationSeconds: item.DurationSeconds})
	}
	return out, nil
}

func (s *SessionSource) Revision(ctx context.Context) (int64, error) {
	return s.sessions.Revision(ctx)
}
