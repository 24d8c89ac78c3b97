package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	apperrors "medita/internal/platform/errors"
)

func run(t *testing.T, dataPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--data", dataPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dataPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dataPath, args...)
	if err != nil {
		t.Fatalf("medita %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestSessionStatsAndTransferCommands(t *testing.T) {
	t.Parallel()
	data := t.TempDir()

	mustRun(t, data, "settings", "set", "timezone", "UTC")
	mustRun(t, data, "session", "add", "--at", "2024-03-14 07:00", "--duration", "10m", "--notes", "calm")
	mustRun(t, data, "session", "add", "--at", "2024-03-15 07:00", "--duration", "20m")

	if out := mustRun(t, data, "session", "list"); !strings.Contains(out, "2024-03-14 07:00") || !strings.Contains(out, "calm") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	if out := mustRun(t, data, "session", "list", "--from", "2024-03-15", "--to", "2024-03-15"); strings.Contains(out, "calm") {
		t.Fatalf("day filter leaked an earlier session:\n%s", out)
	}

	stats := mustRun(t, data, "stats", "--period", "monthly")
	for _, want := range []string{"sessions:        2", "total time:      30m0s", "longest streak:  2 days", "2024-03  30m0s"} {
		if !strings.Contains(stats, want) {
			t.Fatalf("stats output missing %q:\n%s", want, stats)
		}
	}

	if out := mustRun(t, data, "calendar", "--month", "2024-03"); !strings.Contains(out, "2 active days") {
		t.Fatalf("unexpected calendar output:\n%s", out)
	}

	exportPath := filepath.Join(t.TempDir(), "sessions.yaml")
	if out := mustRun(t, data, "export", exportPath); !strings.Contains(out, "exported 2 sessions") {
		t.Fatalf("unexpected export output: %s", out)
	}
	if out := mustRun(t, data, "import", exportPath); !strings.Contains(out, "imported 0 of 2 (duplicates 2, malformed 0)") {
		t.Fatalf("re-import should only find duplicates: %s", out)
	}

	fresh := t.TempDir()
	mustRun(t, fresh, "settings", "set", "timezone", "UTC")
	if out := mustRun(t, fresh, "import", "--dry-run", exportPath); !strings.Contains(out, "would import 2 of 2") {
		t.Fatalf("unexpected dry-run output: %s", out)
	}
	if out := mustRun(t, fresh, "session", "list"); !strings.Contains(out, "no sessions") {
		t.Fatalf("dry run wrote sessions:\n%s", out)
	}
}

func TestCommandErrorsKeepSentinels(t *testing.T) {
	t.Parallel()
	data := t.TempDir()

	if _, err := run(t, data, "session", "add", "--at", "yesterday", "--duration", "5m"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad --at, got %v", err)
	}
	if _, err := run(t, data, "stats", "--period", "hourly"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad period, got %v", err)
	}
	if _, err := run(t, data, "session", "delete", "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := run(t, data, "timer", "stop"); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if out := mustRun(t, data, "timer", "status"); !strings.Contains(out, "no timer running") {
		t.Fatalf("unexpected status: %s", out)
	}
}

func TestSettingsShowReflectsSet(t *testing.T) {
	t.Parallel()
	data := t.TempDir()
	mustRun(t, data, "settings", "set", "daily_goal_minutes", "25")
	out := mustRun(t, data, "settings", "show")
	if !strings.Contains(out, "daily_goal_minutes") || !strings.Contains(out, "25") {
		t.Fatalf("settings show missing change:\n%s", out)
	}
	if _, err := run(t, data, "settings", "set", "timezone", "Mars/Olympus"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid timezone, got %v", err)
	}
}
