package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"medita/internal/modules/session/domain"
	apperrors "medita/internal/platform/errors"
)

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  timestamp TEXT NOT NULL,
  timestamp_unix_nano INTEGER NOT NULL UNIQUE,
  duration_seconds INTEGER NOT NULL CHECK (duration_seconds >= 0),
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS store_meta (
  key TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionStore) Insert(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (id, timestamp, timestamp_unix_nano, duration_seconds, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?);
`
	return s.withRevision(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, stmt,
			session.ID,
			session.Timestamp.UTC().Format(time.RFC3339Nano),
			session.Timestamp.UnixNano(),
			session.DurationSeconds,
			session.Notes,
			session.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: session at %s", apperrors.ErrAlreadyExists, session.Timestamp.Format(time.RFC3339Nano))
			}
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, id string) (domain.Session, error) {
	var deleted domain.Session
	err := s.withRevision(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT id, timestamp, duration_seconds, notes, created_at FROM sessions WHERE id = ?`, id)
		session, err := scanSession(row)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		deleted = session
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return deleted, nil
}

func (s *SQLiteSessionStore) List(ctx context.Context, from, to time.Time) ([]domain.Session, error) {
	query := `SELECT id, timestamp, duration_seconds, notes, created_at FROM sessions`
	var where []string
	var args []any
	if !from.IsZero() {
		where = append(where, "timestamp_unix_nano >= ?")
		args = append(args, from.UnixNano())
	}
	if !to.IsZero() {
		where = append(where, "timestamp_unix_nano < ?")
		args = append(args, to.UnixNano())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp_unix_nano ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteSessionStore) FindByTimestamp(ctx context.Context, timestamp time.Time) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, timestamp, duration_seconds, notes, created_at FROM sessions WHERE timestamp_unix_nano = ?`, timestamp.UnixNano())
	return scanSession(row)
}

func (s *SQLiteSessionStore) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key = 'revision'`).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}

// withRevision runs fn and bumps the revision counter in one transaction.
func (s *SQLiteSessionStore) withRevision(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	const bump = `
INSERT INTO store_meta (key, value) VALUES ('revision', 1)
ON CONFLICT(key) DO UPDATE SET value = value + 1;
`
	if _, err := tx.ExecContext(ctx, bump); err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session            domain.Session
		timestamp, created string
	)
	if err := row.Scan(&session.ID, &timestamp, &session.DurationSeconds, &session.Notes, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, apperrors.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("scan session: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s timestamp: %w", session.ID, err)
	}
	session.Timestamp = ts
	session.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return session, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
