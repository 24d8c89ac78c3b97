package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	sessionout "medita/internal/modules/session/adapter/out"
	sessiondto "medita/internal/modules/session/dto"
	sessionin "medita/internal/modules/session/port/in"
	"medita/internal/modules/session/service"
	"medita/internal/modules/session/usecase"
	apperrors "medita/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type seqID struct {
	n int
}

func (s *seqID) New() string {
	s.n++
	return "sess-" + string(rune('0'+s.n))
}

func newInteractor(t *testing.T, clk *fakeClock, journal bool) (sessionin.Usecase, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := sessionout.NewSQLiteSessionStore(filepath.Join(dir, ".medita", "medita.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	var j = sessionout.NewVaultJournalWriter(dir, time.UTC)
	if !journal {
		j = nil
	}
	svc := service.NewSessionService(clk, &seqID{}, store, j, time.UTC, zerolog.Nop())
	return usecase.NewInteractor(svc, sessionout.NewFileActiveSessionStore(filepath.Join(dir, ".medita")), 20), dir
}

func TestTimerLifecycleRecordsFloorOfElapsed(t *testing.T) {
	t.Parallel()
	started := time.Date(2026, 2, 25, 6, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{
		started,
		started.Add(5 * time.Minute),
		started.Add(12*time.Minute + 30*time.Second + 900*time.Millisecond),
	}}
	uc, _ := newInteractor(t, clk, false)
	ctx := context.Background()

	start, err := uc.Start(ctx, sessiondto.StartInput{Notes: "morning sit"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if start.PlannedSeconds != 20*60 {
		t.Fatalf("default planned duration not applied: %d", start.PlannedSeconds)
	}
	if _, err := uc.Start(ctx, sessiondto.StartInput{}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected active session error, got %v", err)
	}

	active, err := uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ElapsedSeconds != 300 || active.RemainingSeconds != 900 {
		t.Fatalf("unexpected active timer: %+v", active)
	}

	end, err := uc.End(ctx, sessiondto.EndInput{})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if end.DurationSeconds != 750 {
		t.Fatalf("expected 750s, got %d", end.DurationSeconds)
	}
	if end.Notes != "morning sit" || !end.Timestamp.Equal(started) {
		t.Fatalf("unexpected recorded session: %+v", end)
	}
	if _, err := uc.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("timer should be cleared, got %v", err)
	}
	if _, err := uc.End(ctx, sessiondto.EndInput{}); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("second end should fail, got %v", err)
	}
}

func TestEndRejectsMismatchedSessionID(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 2, 25, 6, 0, 0, 0, time.UTC)
	uc, _ := newInteractor(t, &fakeClock{values: []time.Time{at}}, false)
	ctx := context.Background()
	if _, err := uc.Start(ctx, sessiondto.StartInput{PlannedMinutes: 5}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.End(ctx, sessiondto.EndInput{SessionID: "other"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := uc.GetActive(ctx); err != nil {
		t.Fatalf("timer must survive a rejected end: %v", err)
	}
}

func TestStartRejectsNegativePlan(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t, &fakeClock{values: []time.Time{time.Now()}}, false)
	if _, err := uc.Start(context.Background(), sessiondto.StartInput{PlannedMinutes: -3}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAddListDeleteAndRevision(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t, &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}}, false)
	ctx := context.Background()

	rev0, err := uc.Revision(ctx)
	if err != nil || rev0 != 0 {
		t.Fatalf("fresh store revision = %d (%v)", rev0, err)
	}

	first := time.Date(2026, 2, 10, 7, 0, 0, 0, time.UTC)
	second := time.Date(2026, 2, 12, 7, 0, 0, 0, time.UTC)
	added, err := uc.Add(ctx, sessiondto.AddInput{Timestamp: second, DurationSeconds: 600})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := uc.Add(ctx, sessiondto.AddInput{Timestamp: first, DurationSeconds: 300, Notes: "breath"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := uc.Add(ctx, sessiondto.AddInput{Timestamp: first, DurationSeconds: 60}); !errors.Is(err, apperrors.ErrAlreadyExists) {
		t.Fatalf("expected duplicate timestamp error, got %v", err)
	}
	if _, err := uc.Add(ctx, sessiondto.AddInput{Timestamp: first.Add(time.Hour), DurationSeconds: -1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid duration error, got %v", err)
	}

	all, err := uc.List(ctx, sessiondto.ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || !all[0].Timestamp.Equal(first) || all[0].Notes != "breath" {
		t.Fatalf("list should be chronological: %+v", all)
	}
	window, err := uc.List(ctx, sessiondto.ListInput{From: first.Add(time.Second), To: second.Add(time.Second)})
	if err != nil || len(window) != 1 || window[0].ID != added.ID {
		t.Fatalf("unexpected window %+v (%v)", window, err)
	}
	if _, err := uc.List(ctx, sessiondto.ListInput{From: second, To: first}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("inverted range should fail, got %v", err)
	}

	exists, err := uc.Exists(ctx, first)
	if err != nil || !exists {
		t.Fatalf("exists(first) = %v (%v)", exists, err)
	}
	rev2, _ := uc.Revision(ctx)
	if rev2 != 2 {
		t.Fatalf("expected revision 2 after two inserts, got %d", rev2)
	}

	if err := uc.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := uc.Delete(ctx, added.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	exists, _ = uc.Exists(ctx, second)
	if exists {
		t.Fatalf("deleted session still reported")
	}
	rev3, _ := uc.Revision(ctx)
	if rev3 != 3 {
		t.Fatalf("expected revision 3 after delete, got %d", rev3)
	}
}

func TestJournalNoteTracksDayAndKeepsUserText(t *testing.T) {
	t.Parallel()
	uc, dir := newInteractor(t, &fakeClock{values: []time.Time{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}}, true)
	ctx := context.Background()
	day := time.Date(2026, 2, 14, 6, 30, 0, 0, time.UTC)

	if _, err := uc.Add(ctx, sessiondto.AddInput{Timestamp: day, DurationSeconds: 900, Notes: "calm"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	path := filepath.Join(dir, "journal", "2026", "02", "2026-02-14.md")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if !strings.Contains(string(raw), "total_seconds: 900") || !strings.Contains(string(raw), "06:30 · 15m · calm") {
		t.Fatalf("unexpected journal:\n%s", raw)
	}

	edited := strings.Replace(string(raw), "<!-- medita:sessions:start -->", "Felt restless today.\n\n<!-- medita:sessions:start -->", 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatalf("edit journal: %v", err)
	}
	if _, err := uc.Add(ctx, sessiondto.AddInput{Timestamp: day.Add(12 * time.Hour), DurationSeconds: 90}); err != nil {
		t.Fatalf("add: %v", err)
	}
	raw, _ = os.ReadFile(path)
	text := string(raw)
	if !strings.Contains(text, "Felt restless today.") {
		t.Fatalf("user text lost:\n%s", text)
	}
	if !strings.Contains(text, "sessions: 2") || !strings.Contains(text, "18:30 · 1m 30s") {
		t.Fatalf("journal not refreshed:\n%s", text)
	}
}
