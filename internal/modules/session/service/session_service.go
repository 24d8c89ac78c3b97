package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"medita/internal/modules/session/domain"
	sessionout "medita/internal/modules/session/port/out"
	"medita/internal/platform/clock"
	apperrors "medita/internal/platform/errors"
	"medita/internal/platform/id"
)

type SessionService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   sessionout.SessionStore
	journal sessionout.Journal
	loc     *time.Location
	logger  zerolog.Logger
}

// NewSessionService wires the recorder. journal may be nil; loc decides which
// local day a session belongs to when the journal is refreshed.
func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore, journal sessionout.Journal, loc *time.Location, logger zerolog.Logger) *SessionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SessionService{clock: clock, idGen: idGen, store: store, journal: journal, loc: loc, logger: logger}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionService) Start(_ context.Context, plannedSeconds int64, notes string) (domain.ActiveSession, error) {
	if plannedSeconds <= 0 {
		return domain.ActiveSession{}, fmt.Errorf("%w: planned duration must be positive", apperrors.ErrInvalidInput)
	}
	return domain.ActiveSession{
		SessionID:      s.idGen.New(),
		StartedAt:      s.clock.Now(),
		PlannedSeconds: plannedSeconds,
		Notes:          notes,
	}, nil
}

func (s *SessionService) End(ctx context.Context, active domain.ActiveSession, notes string) (domain.Session, error) {
	endedAt := s.clock.Now()
	if notes == "" {
		notes = active.Notes
	}
	session := domain.Session{
		ID:              active.SessionID,
		Timestamp:       active.StartedAt,
		DurationSeconds: int64(active.Elapsed(endedAt) / time.Second),
		Notes:           notes,
		CreatedAt:       endedAt,
	}
	if err := s.save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info().Str("id", session.ID).Int64("seconds", session.DurationSeconds).Msg("timer session recorded")
	return session, nil
}

func (s *SessionService) Add(ctx context.Context, timestamp time.Time, durationSeconds int64, notes string) (domain.Session, error) {
	session := domain.Session{
		ID:              s.idGen.New(),
		Timestamp:       timestamp,
		DurationSeconds: durationSeconds,
		Notes:           notes,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.logger.Debug().Str("id", session.ID).Time("timestamp", timestamp).Msg("session added")
	return session, nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.syncJournal(ctx, deleted.Timestamp)
	s.logger.Info().Str("id", id).Msg("session deleted")
	return nil
}

func (s *SessionService) List(ctx context.Context, from, to time.Time) ([]domain.Session, error) {
	return s.store.List(ctx, from, to)
}

func (s *SessionService) FindByTimestamp(ctx context.Context, timestamp time.Time) (domain.Session, error) {
	return s.store.FindByTimestamp(ctx, timestamp)
}

func (s *SessionService) Revision(ctx context.Context) (int64, error) {
	return s.store.Revision(ctx)
}

func (s *SessionService) save(ctx context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if err := s.store.Insert(ctx, session); err != nil {
		return err
	}
	s.syncJournal(ctx, session.Timestamp)
	return nil
}

// syncJournal rewrites the journal note for the local day containing ts.
// Journal failures are logged; the store stays the source of truth.
func (s *SessionService) syncJournal(ctx context.Context, ts time.Time) {
	if s.journal == nil {
		return
	}
	local := ts.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, s.loc)
	sessions, err := s.store.List(ctx, start, end)
	if err != nil {
		s.logger.Warn().Err(err).Msg("list sessions for journal")
		return
	}
	path, err := s.journal.WriteDay(ctx, start, sessions)
	if err != nil {
		s.logger.Warn().Err(err).Msg("write journal note")
		return
	}
	s.logger.Debug().Str("path", path).Msg("journal updated")
}
