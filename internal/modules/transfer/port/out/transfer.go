package out

import (
	"context"
	"time"

	"medita/internal/modules/transfer/domain"
)

// SessionGateway is the slice of session storage an import or export needs.
type SessionGateway interface {
	ListAll(ctx context.Context) ([]domain.Record, error)
	Exists(ctx context.Context, timestamp time.Time) (bool, error)
	Add(ctx context.Context, record domain.Record) error
}

type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}
