package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "medita/internal/platform/errors"
)

const SchemaVersion = 1

// ActiveSession is a running timer that has not been recorded yet.
type ActiveSession struct {
	SessionID      string    `json:"session_id"`
	StartedAt      time.Time `json:"started_at"`
	PlannedSeconds int64     `json:"planned_seconds"`
	Notes          string    `json:"notes"`
}

// Elapsed never goes negative, even if the clock stepped backwards.
func (a ActiveSession) Elapsed(now time.Time) time.Duration {
	d := now.Sub(a.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

func (a ActiveSession) Remaining(now time.Time) time.Duration {
	left := time.Duration(a.PlannedSeconds)*time.Second - a.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

type Session struct {
	ID              string
	Timestamp       time.Time
	DurationSeconds int64
	Notes           string
	CreatedAt       time.Time
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	if s.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", apperrors.ErrInvalidInput)
	}
	if s.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration must be non-negative", apperrors.ErrInvalidInput)
	}
	return nil
}
