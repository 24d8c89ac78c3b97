package out

import (
	"context"
	"time"

	"medita/internal/modules/session/domain"
)

type SessionStore interface {
	Insert(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, id string) (domain.Session, error)
	List(ctx context.Context, from, to time.Time) ([]domain.Session, error)
	FindByTimestamp(ctx context.Context, timestamp time.Time) (domain.Session, error)
	// Revision changes whenever the stored set of sessions changes.
	Revision(ctx context.Context) (int64, error)
}

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.ActiveSession) error
	LoadActive(ctx context.Context) (domain.ActiveSession, error)
	ClearActive(ctx context.Context) error
}

// Journal mirrors one local day of sessions into a human-readable note.
type Journal interface {
	WriteDay(ctx context.Context, day time.Time, sessions []domain.Session) (string, error)
}
