package domain

import "time"

// Session is the engine's read-only view of one recorded meditation.
type Session struct {
	Timestamp       time.Time
	DurationSeconds int64
}
