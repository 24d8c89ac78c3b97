package out

import (
	"context"
	"time"
)

type Notifier interface {
	Notify(title, message string) error
}

// ActivityProbe reports whether any session was recorded in [from, to).
type ActivityProbe interface {
	MeditatedBetween(ctx context.Context, from, to time.Time) (bool, error)
}

type StateStore interface {
	LastFired(ctx context.Context) (string, error)
	MarkFired(ctx context.Context, day string) error
}
