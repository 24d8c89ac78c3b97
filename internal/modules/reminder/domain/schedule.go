package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "medita/internal/platform/errors"
)

// Schedule is the daily "you have not meditated yet" reminder.
type Schedule struct {
	Enabled bool
	Hour    int
	Minute  int
}

// ParseSchedule reads a 24h "HH:MM" clock time.
func ParseSchedule(enabled bool, at string) (Schedule, error) {
	parts := strings.Split(strings.TrimSpace(at), ":")
	if len(parts) != 2 {
		return Schedule{}, fmt.Errorf("%w: reminder time %q must be HH:MM", apperrors.ErrInvalidInput, at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Schedule{}, fmt.Errorf("%w: reminder hour %q out of range", apperrors.ErrInvalidInput, parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 || len(parts[1]) != 2 {
		return Schedule{}, fmt.Errorf("%w: reminder minute %q out of range", apperrors.ErrInvalidInput, parts[1])
	}
	return Schedule{Enabled: enabled, Hour: hour, Minute: minute}, nil
}

func (s Schedule) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// FireAt is the fire time on the local date of day.
func (s Schedule) FireAt(day time.Time, loc *time.Location) time.Time {
	local := day.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, loc)
}

// NextFire is the first fire time strictly after now.
func (s Schedule) NextFire(now time.Time, loc *time.Location) time.Time {
	today := s.FireAt(now, loc)
	if now.Before(today) {
		return today
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, s.Hour, s.Minute, 0, 0, loc)
}

// DayKey names the local date of t, the unit the reminder fires at most once per.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

type Reason string

const (
	ReasonDisabled     Reason = "disabled"
	ReasonTooEarly     Reason = "before reminder time"
	ReasonAlreadyFired Reason = "already reminded today"
	ReasonMeditated    Reason = "already meditated today"
	ReasonDue          Reason = "due"
)

// Decide checks the conditions in a fixed order so the reported reason is
// the first one that blocks the reminder.
func (s Schedule) Decide(now time.Time, lastFiredDay string, meditatedToday bool, loc *time.Location) Reason {
	switch {
	case !s.Enabled:
		return ReasonDisabled
	case now.Before(s.FireAt(now, loc)):
		return ReasonTooEarly
	case lastFiredDay == DayKey(now, loc):
		return ReasonAlreadyFired
	case meditatedToday:
		return ReasonMeditated
	default:
		return ReasonDue
	}
}

func (s Schedule) Due(now time.Time, lastFiredDay string, meditatedToday bool, loc *time.Location) bool {
	return s.Decide(now, lastFiredDay, meditatedToday, loc) == ReasonDue
}
