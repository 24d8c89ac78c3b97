package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	reminderout "medita/internal/modules/reminder/port/out"
)

type reminderState struct {
	LastFired string `json:"last_fired"`
}

type FileStateStore struct {
	path string
}

func NewFileStateStore(statePath string) reminderout.StateStore {
	return &FileStateStore{path: filepath.Join(statePath, "reminder-state.json")}
}

func (s *FileStateStore) LastFired(_ context.Context) (string, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read reminder state: %w", err)
	}
	var state reminderState
	if err := json.Unmarshal(payload, &state); err != nil {
		return "", fmt.Errorf("decode reminder state: %w", err)
	}
	return state.LastFired, nil
}

func (s *FileStateStore) MarkFired(_ context.Context, day string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(reminderState{LastFired: day}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reminder state: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write reminder state: %w", err)
	}
	return nil
}
