package dto

import "time"

type StartInput struct {
	PlannedMinutes int
	Notes          string
}

type StartOutput struct {
	SessionID      string
	StartedAt      time.Time
	PlannedSeconds int64
}

type EndInput struct {
	SessionID string
	Notes     string
}

type EndOutput struct {
	SessionID       string
	Timestamp       time.Time
	DurationSeconds int64
	Notes           string
}

type ActiveSessionOutput struct {
	SessionID        string
	StartedAt        time.Time
	PlannedSeconds   int64
	ElapsedSeconds   int64
	RemainingSeconds int64
	Notes            string
}

type AddInput struct {
	Timestamp       time.Time
	DurationSeconds int64
	Notes           string
}

// ListInput bounds are half-open [From, To); a zero bound is unbounded.
type ListInput struct {
	From time.Time
	To   time.Time
}

type SessionOutput struct {
	ID              string
	Timestamp       time.Time
	DurationSeconds int64
	Notes           string
}
