package usecase

import (
	"context"
	"fmt"
	"time"

	"medita/internal/modules/stats/domain"
	statsdto "medita/internal/modules/stats/dto"
	statsin "medita/internal/modules/stats/port/in"
	"medita/internal/modules/stats/service"
	apperrors "medita/internal/platform/errors"
)

type Interactor struct {
	svc              *service.StatsService
	dailyGoalMinutes int
}

func NewInteractor(svc *service.StatsService, dailyGoalMinutes int) statsin.Usecase {
	return &Interactor{svc: svc, dailyGoalMinutes: dailyGoalMinutes}
}

func (i *Interactor) Report(ctx context.Context, input statsdto.ReportInput) (statsdto.ReportOutput, error) {
	raw := input.Period
	if raw == "" {
		raw = string(domain.PeriodDaily)
	}
	period, err := domain.ParsePeriod(raw)
	if err != nil {
		return statsdto.ReportOutput{}, err
	}
	report, err := i.svc.Report(ctx, period)
	if err != nil {
		return statsdto.ReportOutput{}, err
	}

	buckets := make([]statsdto.BucketOutput, 0, len(report.Buckets))
	for _, b := range report.Buckets {
		buckets = append(buckets, statsdto.BucketOutput{Key: b.Key, Seconds: b.Seconds})
	}
	return statsdto.ReportOutput{
		Period:           string(report.Period),
		Count:            report.Count,
		TotalTime:        report.TotalTime,
		AverageDuration:  report.AverageDuration,
		CurrentStreak:    report.CurrentStreak,
		LongestStreak:    report.LongestStreak,
		TodaySeconds:     report.TodaySeconds,
		DailyGoalMinutes: i.dailyGoalMinutes,
		GoalPercent:      domain.GoalProgress(report.TodaySeconds, i.dailyGoalMinutes),
		Buckets:          buckets,
	}, nil
}

func (i *Interactor) Calendar(ctx context.Context, input statsdto.CalendarInput) (statsdto.CalendarOutput, error) {
	year, month := input.Year, input.Month
	if year == 0 {
		now := i.svc.Now().In(i.svc.Location())
		year, month = now.Year(), now.Month()
	}
	if month < time.January || month > time.December {
		return statsdto.CalendarOutput{}, fmt.Errorf("%w: month %d out of range", apperrors.ErrInvalidInput, month)
	}

	days, err := i.svc.Month(ctx, year, month)
	if err != nil {
		return statsdto.CalendarOutput{}, err
	}
	out := statsdto.CalendarOutput{Year: year, Month: month, Days: make([]statsdto.CalendarDayOutput, 0, len(days))}
	for _, d := range days {
		out.Days = append(out.Days, statsdto.CalendarDayOutput{
			Date:     d.Day.String(),
			Day:      d.Day.Day,
			Weekday:  time.Date(d.Day.Year, d.Day.Month, d.Day.Day, 0, 0, 0, 0, time.UTC).Weekday(),
			Seconds:  d.Seconds,
			Sessions: d.Sessions,
		})
		out.TotalSeconds += d.Seconds
		if d.Sessions > 0 {
			out.ActiveDays++
		}
	}
	return out, nil
}
