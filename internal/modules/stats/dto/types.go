package dto

import "time"

type ReportInput struct {
	Period string
}

type BucketOutput struct {
	Key     string
	Seconds int64
}

type ReportOutput struct {
	Period           string
	Count            int
	TotalTime        time.Duration
	AverageDuration  time.Duration
	CurrentStreak    int
	LongestStreak    int
	TodaySeconds     int64
	DailyGoalMinutes int
	GoalPercent      float64
	Buckets          []BucketOutput
}

// CalendarInput selects a month; a zero Year means the current month.
type CalendarInput struct {
	Year  int
	Month time.Month
}

type CalendarDayOutput struct {
	Date     string
	Day      int
	Weekday  time.Weekday
	Seconds  int64
	Sessions int
}

type CalendarOutput struct {
	Year         int
	Month        time.Month
	Days         []CalendarDayOutput
	TotalSeconds int64
	ActiveDays   int
}
