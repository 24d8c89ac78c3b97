package domain

import (
	"sort"
	"time"
)

// ActivityDays reduces sessions to their unique local calendar dates.
func ActivityDays(sessions []Session, loc *time.Location) map[Day]struct{} {
	days := make(map[Day]struct{}, len(sessions))
	for _, s := range sessions {
		days[DayOf(s.Timestamp, loc)] = struct{}{}
	}
	return days
}

func sortedDays(days map[Day]struct{}) []Day {
	out := make([]Day, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// CurrentStreak counts consecutive activity days ending at the most recent
// one. A streak whose last day is older than yesterday is broken.
func CurrentStreak(sessions []Session, now time.Time, loc *time.Location) int {
	days := ActivityDays(sessions, loc)
	if len(days) == 0 {
		return 0
	}
	var latest Day
	first := true
	for d := range days {
		if first || latest.Before(d) {
			latest = d
			first = false
		}
	}
	today := DayOf(now, loc)
	if latest != today && latest != today.AddDays(-1) {
		return 0
	}
	count := 0
	for expected := latest; ; expected = expected.AddDays(-1) {
		if _, ok := days[expected]; !ok {
			break
		}
		count++
	}
	return count
}

// LongestStreak is the longest run of consecutive activity days in history.
func LongestStreak(sessions []Session, loc *time.Location) int {
	days := sortedDays(ActivityDays(sessions, loc))
	if len(days) == 0 {
		return 0
	}
	longest, run := 0, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDays(1) == days[i] {
			run++
			continue
		}
		longest = max(longest, run)
		run = 1
	}
	return max(longest, run)
}
