package out

import (
	"context"

	"medita/internal/modules/stats/domain"
)

// SessionSource hands the engine a full snapshot. Revision must change
// whenever the snapshot does.
type SessionSource interface {
	ListAll(ctx context.Context) ([]domain.Session, error)
	Revision(ctx context.Context) (int64, error)
}
