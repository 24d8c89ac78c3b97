package domain

import "time"

// Report bundles every derived value for one snapshot and period.
type Report struct {
	KPIs
	CurrentStreak int
	LongestStreak int
	TodaySeconds  int64
	Period        Period
	Buckets       []Bucket
}

// Compute derives the full report from scratch. It performs no I/O and keeps
// no reference to sessions after returning.
func Compute(sessions []Session, period Period, now time.Time, loc *time.Location) Report {
	today := DayOf(now, loc)
	var todaySeconds int64
	for _, s := range sessions {
		if DayOf(s.Timestamp, loc) == today {
			todaySeconds += s.DurationSeconds
		}
	}
	return Report{
		KPIs:          ComputeKPIs(sessions),
		CurrentStreak: CurrentStreak(sessions, now, loc),
		LongestStreak: LongestStreak(sessions, loc),
		TodaySeconds:  todaySeconds,
		Period:        period,
		Buckets:       Bucketize(sessions, period, loc),
	}
}
