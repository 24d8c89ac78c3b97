package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"medita/internal/platform/config"
	apperrors "medita/internal/platform/errors"
)

func TestNewUsesDefaultsWhenSettingsMissing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, ".medita", "medita.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.Settings != config.Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg.Settings)
	}
	if _, err := config.New(""); err == nil {
		t.Fatalf("empty data path should fail")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".medita", "settings.yaml")
	settings := config.Defaults()
	if err := settings.Set("timezone", "Europe/Berlin"); err != nil {
		t.Fatalf("set timezone: %v", err)
	}
	if err := settings.Set("reminder.enabled", "true"); err != nil {
		t.Fatalf("set reminder: %v", err)
	}
	if err := settings.Set("daily_goal_minutes", "25"); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if err := config.Save(path, settings); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != settings {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, settings)
	}
	loc, err := loaded.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Fatalf("expected Europe/Berlin location, got %v (%v)", loc, err)
	}
}

func TestSetRejectsInvalidValuesWithoutMutating(t *testing.T) {
	t.Parallel()
	settings := config.Defaults()
	cases := [][2]string{
		{"timezone", "Mars/Olympus"},
		{"default_timer_minutes", "0"},
		{"daily_goal_minutes", "abc"},
		{"reminder.at", "25:99"},
		{"reminder.enabled", "maybe"},
		{"log_level", "loud"},
		{"unknown", "x"},
	}
	for _, c := range cases {
		if err := settings.Set(c[0], c[1]); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("set %s=%s: expected invalid input, got %v", c[0], c[1], err)
		}
	}
	if settings != config.Defaults() {
		t.Fatalf("failed sets must not mutate settings: %+v", settings)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("timezone: UTC\nbogus: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatalf("unknown field should fail")
	}
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	settings, err := config.Load(path)
	if err != nil {
		t.Fatalf("empty file should load defaults: %v", err)
	}
	if settings != config.Defaults() {
		t.Fatalf("expected defaults for empty file, got %+v", settings)
	}
}
