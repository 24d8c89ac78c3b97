package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"medita/internal/modules/reminder/domain"
	reminderout "medita/internal/modules/reminder/port/out"
	"medita/internal/platform/clock"
)

const (
	notificationTitle   = "medita"
	notificationMessage = "You have not meditated today. A few quiet minutes still count."
	defaultRecheck      = 15 * time.Minute
)

type ReminderService struct {
	schedule domain.Schedule
	loc      *time.Location
	clock    clock.Clock
	notifier reminderout.Notifier
	probe    reminderout.ActivityProbe
	state    reminderout.StateStore
	logger   zerolog.Logger
	recheck  time.Duration
}

func NewReminderService(schedule domain.Schedule, loc *time.Location, clk clock.Clock, notifier reminderout.Notifier, probe reminderout.ActivityProbe, state reminderout.StateStore, logger zerolog.Logger) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		schedule: schedule,
		loc:      loc,
		clock:    clk,
		notifier: notifier,
		probe:    probe,
		state:    state,
		logger:   logger,
		recheck:  defaultRecheck,
	}
}

// WithRecheck bounds how long Run sleeps between evaluations, so clock jumps
// and suspend/resume are noticed.
func (s *ReminderService) WithRecheck(d time.Duration) *ReminderService {
	if d > 0 {
		s.recheck = d
	}
	return s
}

func (s *ReminderService) Schedule() domain.Schedule {
	return s.schedule
}

func (s *ReminderService) NextFire() time.Time {
	return s.schedule.NextFire(s.clock.Now(), s.loc)
}

func (s *ReminderService) Check(ctx context.Context) (bool, domain.Reason, error) {
	now := s.clock.Now()
	if !s.schedule.Enabled {
		return false, domain.ReasonDisabled, nil
	}
	lastFired, err := s.state.LastFired(ctx)
	if err != nil {
		return false, "", fmt.Errorf("read reminder state: %w", err)
	}

	local := now.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, s.loc)
	meditated, err := s.probe.MeditatedBetween(ctx, start, end)
	if err != nil {
		return false, "", fmt.Errorf("check today's sessions: %w", err)
	}

	reason := s.schedule.Decide(now, lastFired, meditated, s.loc)
	if reason != domain.ReasonDue {
		s.logger.Debug().Str("reason", string(reason)).Msg("reminder skipped")
		return false, reason, nil
	}
	if err := s.notifier.Notify(notificationTitle, notificationMessage); err != nil {
		return false, reason, fmt.Errorf("send reminder: %w", err)
	}
	if err := s.state.MarkFired(ctx, domain.DayKey(now, s.loc)); err != nil {
		return true, reason, fmt.Errorf("save reminder state: %w", err)
	}
	s.logger.Info().Str("at", s.schedule.String()).Msg("reminder sent")
	return true, reason, nil
}

// Run checks once at start, then sleeps until the next fire time or the
// recheck interval, whichever is sooner. Check failures are logged and the
// loop keeps going; only cancellation stops it.
func (s *ReminderService) Run(ctx context.Context) error {
	if !s.schedule.Enabled {
		s.logger.Info().Msg("reminder disabled, nothing to run")
		return nil
	}
	s.logger.Info().Str("at", s.schedule.String()).Str("zone", s.loc.String()).Msg("reminder loop started")
	for {
		if _, _, err := s.Check(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("reminder check failed")
		}
		wait := s.NextFire().Sub(s.clock.Now())
		if wait > s.recheck {
			wait = s.recheck
		}
		if wait < time.Second {
			wait = time.Second
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("reminder loop stopped")
			return nil
		case <-timer.C:
		}
	}
}
