package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "medita/internal/platform/errors"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func ParsePeriod(raw string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(raw)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Period) Validate() error {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return nil
	default:
		return fmt.Errorf("%w: unsupported period %q", apperrors.ErrInvalidInput, string(p))
	}
}

// Bucket is one labelled chart bar.
type Bucket struct {
	Key     string
	Seconds int64
}

// BucketKey labels t for the period in loc. Weekly keys use the ISO 8601
// week-numbering year, so late December can land in week 01 of the next year.
func BucketKey(t time.Time, period Period, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	switch period {
	case PeriodWeekly:
		year, week := local.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonthly:
		return local.Format("2006-01")
	default:
		return local.Format("2006-01-02")
	}
}

// Bucketize totals durations per period key, ordered ascending by key.
func Bucketize(sessions []Session, period Period, loc *time.Location) []Bucket {
	totals := map[string]int64{}
	for _, s := range sessions {
		totals[BucketKey(s.Timestamp, period, loc)] += s.DurationSeconds
	}
	out := make([]Bucket, 0, len(totals))
	for key, secs := range totals {
		out = append(out, Bucket{Key: key, Seconds: secs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
