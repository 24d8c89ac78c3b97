package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	sessionout "medita/internal/modules/session/adapter/out"
	"medita/internal/modules/session/domain"
	apperrors "medita/internal/platform/errors"
)

func openStore(t *testing.T) *sessionout.SQLiteSessionStore {
	t.Helper()
	store, err := sessionout.NewSQLiteSessionStore(filepath.Join(t.TempDir(), ".medita", "medita.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRejectsDuplicateTimestamp(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 14, 7, 0, 0, 123, time.UTC)

	if err := store.Insert(ctx, domain.Session{ID: "a", Timestamp: ts, DurationSeconds: 60, CreatedAt: ts}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := store.Insert(ctx, domain.Session{ID: "b", Timestamp: ts.In(time.FixedZone("UTC+2", 7200)), DurationSeconds: 30, CreatedAt: ts})
	if !errors.Is(err, apperrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	rev, err := store.Revision(ctx)
	if err != nil {
		t.Fatalf("revision: %v", err)
	}
	if rev != 1 {
		t.Fatalf("failed insert must not bump revision, got %d", rev)
	}
	found, err := store.FindByTimestamp(ctx, ts)
	if err != nil || found.ID != "a" || !found.Timestamp.Equal(ts) {
		t.Fatalf("find by timestamp: %+v %v", found, err)
	}
}

func TestSQLiteStoreListIsHalfOpenAndOrdered(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{48 * time.Hour, 0, 24 * time.Hour} {
		s := domain.Session{ID: string(rune('a' + i)), Timestamp: base.Add(offset), DurationSeconds: 60, CreatedAt: base}
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	all, err := store.List(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "b" || all[1].ID != "c" || all[2].ID != "a" {
		t.Fatalf("expected chronological order, got %+v", all)
	}

	window, err := store.List(ctx, base, base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("upper bound must be exclusive, got %d sessions", len(window))
	}

	if _, err := store.Delete(ctx, "zzz"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	deleted, err := store.Delete(ctx, "c")
	if err != nil || deleted.ID != "c" {
		t.Fatalf("delete: %+v %v", deleted, err)
	}
	rev, _ := store.Revision(ctx)
	if rev != 4 {
		t.Fatalf("expected revision 4 after three inserts and a delete, got %d", rev)
	}
}
