package domain

import (
	"fmt"
	"time"
)

// Day is a calendar date with no time-of-day or zone attached.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t as observed in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// AddDays moves by whole calendar days, independent of DST.
func (d Day) AddDays(n int) Day {
	y, m, dd := d.midnight().AddDate(0, 0, n).Date()
	return Day{Year: y, Month: m, Day: dd}
}

func (d Day) Before(other Day) bool {
	return d.midnight().Before(other.midnight())
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
