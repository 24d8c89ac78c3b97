package service

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"medita/internal/modules/stats/domain"
	statsout "medita/internal/modules/stats/port/out"
	"medita/internal/platform/clock"
)

const cacheSize = 32

type cacheKey struct {
	revision int64
	period   domain.Period
	today    domain.Day
}

type StatsService struct {
	source statsout.SessionSource
	clock  clock.Clock
	loc    *time.Location
	cache  *lru.Cache[cacheKey, domain.Report]
}

func NewStatsService(source statsout.SessionSource, clk clock.Clock, loc *time.Location) (*StatsService, error) {
	if loc == nil {
		loc = time.UTC
	}
	cache, err := lru.New[cacheKey, domain.Report](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}
	return &StatsService{source: source, clock: clk, loc: loc, cache: cache}, nil
}

func (s *StatsService) Location() *time.Location {
	return s.loc
}

func (s *StatsService) Now() time.Time {
	return s.clock.Now()
}

// Report recomputes from a fresh snapshot unless the store revision, period
// and local date all match a cached result.
func (s *StatsService) Report(ctx context.Context, period domain.Period) (domain.Report, error) {
	if err := period.Validate(); err != nil {
		return domain.Report{}, err
	}
	revision, err := s.source.Revision(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("read store revision: %w", err)
	}
	now := s.clock.Now()
	key := cacheKey{revision: revision, period: period, today: domain.DayOf(now, s.loc)}
	if cached, ok := s.cache.Get(key); ok {
		return cloneReport(cached), nil
	}

	sessions, err := s.source.ListAll(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("load sessions: %w", err)
	}
	report := domain.Compute(sessions, period, now, s.loc)
	s.cache.Add(key, report)
	return cloneReport(report), nil
}

func (s *StatsService) Month(ctx context.Context, year int, month time.Month) ([]domain.DayTotal, error) {
	sessions, err := s.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	return domain.MonthCalendar(sessions, year, month, s.loc), nil
}

func cloneReport(r domain.Report) domain.Report {
	buckets := make([]domain.Bucket, len(r.Buckets))
	copy(buckets, r.Buckets)
	r.Buckets = buckets
	return r
}
