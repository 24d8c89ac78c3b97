package domain

import "time"

type DayTotal struct {
	Day      Day
	Seconds  int64
	Sessions int
}

// MonthCalendar returns one entry per day of the month, including empty days.
func MonthCalendar(sessions []Session, year int, month time.Month, loc *time.Location) []DayTotal {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	out := make([]DayTotal, daysInMonth)
	for i := range out {
		out[i].Day = Day{Year: year, Month: month, Day: i + 1}
	}
	for _, s := range sessions {
		d := DayOf(s.Timestamp, loc)
		if d.Year != year || d.Month != month {
			continue
		}
		out[d.Day-1].Seconds += s.DurationSeconds
		out[d.Day-1].Sessions++
	}
	return out
}

// GoalProgress reports how much of a daily goal has been met, in [0, 100].
func GoalProgress(todaySeconds int64, goalMinutes int) float64 {
	if goalMinutes <= 0 {
		return 0
	}
	pct := float64(todaySeconds) / float64(goalMinutes*60) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
