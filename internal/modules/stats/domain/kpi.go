package domain

import "time"

type KPIs struct {
	Count           int
	TotalTime       time.Duration
	AverageDuration time.Duration
}

// ComputeKPIs sums durations and derives the average rounded to the nearest
// second, halves rounding up. Empty input yields zero values.
func ComputeKPIs(sessions []Session) KPIs {
	var total int64
	for _, s := range sessions {
		total += s.DurationSeconds
	}
	out := KPIs{Count: len(sessions), TotalTime: seconds(total)}
	if len(sessions) == 0 {
		return out
	}
	n := int64(len(sessions))
	out.AverageDuration = seconds((2*total + n) / (2 * n))
	return out
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}
