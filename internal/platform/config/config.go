package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "medita/internal/platform/errors"
)

const stateDir = ".medita"

type ReminderSettings struct {
	Enabled bool   `yaml:"enabled"`
	At      string `yaml:"at"`
}

type JournalSettings struct {
	Enabled bool `yaml:"enabled"`
}

// Settings is the user-editable part of the configuration, persisted as YAML.
type Settings struct {
	Timezone            string           `yaml:"timezone"`
	DefaultTimerMinutes int              `yaml:"default_timer_minutes"`
	DailyGoalMinutes    int              `yaml:"daily_goal_minutes"`
	Reminder            ReminderSettings `yaml:"reminder"`
	Journal             JournalSettings  `yaml:"journal"`
	LogLevel            string           `yaml:"log_level"`
}

type Config struct {
	DataPath     string
	StatePath    string
	DBPath       string
	SettingsPath string
	Settings     Settings
}

func Defaults() Settings {
	return Settings{
		Timezone:            "Local",
		DefaultTimerMinutes: 20,
		DailyGoalMinutes:    10,
		Reminder:            ReminderSettings{Enabled: false, At: "20:00"},
		LogLevel:            "info",
	}
}

func New(dataPath string) (Config, error) {
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	state := filepath.Join(dataPath, stateDir)
	cfg := Config{
		DataPath:     dataPath,
		StatePath:    state,
		DBPath:       filepath.Join(state, "medita.db"),
		SettingsPath: filepath.Join(state, "settings.yaml"),
	}
	settings, err := Load(cfg.SettingsPath)
	if err != nil {
		return Config{}, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	settings := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("decode settings %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return settings, nil
}

func Save(path string, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	raw, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s Settings) Validate() error {
	if _, err := loadLocation(s.Timezone); err != nil {
		return err
	}
	if s.DefaultTimerMinutes <= 0 {
		return fmt.Errorf("%w: default_timer_minutes must be positive", apperrors.ErrInvalidInput)
	}
	if s.DailyGoalMinutes < 0 {
		return fmt.Errorf("%w: daily_goal_minutes must be non-negative", apperrors.ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", s.Reminder.At); err != nil {
		return fmt.Errorf("%w: reminder.at must be HH:MM", apperrors.ErrInvalidInput)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("%w: unsupported log_level %q", apperrors.ErrInvalidInput, s.LogLevel)
	}
	return nil
}

// Location resolves the zone used for every calendar-day computation.
func (s Settings) Location() (*time.Location, error) {
	return loadLocation(s.Timezone)
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", apperrors.ErrInvalidInput, name)
	}
	return loc, nil
}

// Set updates one dotted key. The result is validated before it is applied.
func (s *Settings) Set(key, value string) error {
	next := *s
	value = strings.TrimSpace(value)
	switch key {
	case "timezone":
		next.Timezone = value
	case "default_timer_minutes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", apperrors.ErrInvalidInput, key)
		}
		next.DefaultTimerMinutes = n
	case "daily_goal_minutes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", apperrors.ErrInvalidInput, key)
		}
		next.DailyGoalMinutes = n
	case "reminder.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", apperrors.ErrInvalidInput, key)
		}
		next.Reminder.Enabled = b
	case "reminder.at":
		next.Reminder.At = value
	case "journal.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", apperrors.ErrInvalidInput, key)
		}
		next.Journal.Enabled = b
	case "log_level":
		next.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("%w: unknown setting %q", apperrors.ErrInvalidInput, key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// Entries lists settings as key/value pairs in a stable order.
func (s Settings) Entries() [][2]string {
	return [][2]string{
		{"timezone", s.Timezone},
		{"default_timer_minutes", strconv.Itoa(s.DefaultTimerMinutes)},
		{"daily_goal_minutes", strconv.Itoa(s.DailyGoalMinutes)},
		{"reminder.enabled", strconv.FormatBool(s.Reminder.Enabled)},
		{"reminder.at", s.Reminder.At},
		{"journal.enabled", strconv.FormatBool(s.Journal.Enabled)},
		{"log_level", s.LogLevel},
	}
}
