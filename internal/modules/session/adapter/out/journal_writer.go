package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"medita/internal/modules/session/domain"
	sessionout "medita/internal/modules/session/port/out"
	"medita/internal/platform/markdown"
)

const (
	journalStart = "<!-- medita:sessions:start -->"
	journalEnd   = "<!-- medita:sessions:end -->"
)

type journalMeta struct {
	SchemaVersion int    `yaml:"schema_version"`
	Date          string `yaml:"date"`
	Sessions      int    `yaml:"sessions"`
	TotalSeconds  int64  `yaml:"total_seconds"`
}

// VaultJournalWriter keeps one markdown note per local day under
// journal/YYYY/MM. Anything the user writes outside the managed block survives.
type VaultJournalWriter struct {
	root string
	loc  *time.Location
}

func NewVaultJournalWriter(dataPath string, loc *time.Location) sessionout.Journal {
	if loc == nil {
		loc = time.UTC
	}
	return &VaultJournalWriter{root: filepath.Join(dataPath, "journal"), loc: loc}
}

func (w *VaultJournalWriter) WriteDay(_ context.Context, day time.Time, sessions []domain.Session) (string, error) {
	local := day.In(w.loc)
	path := filepath.Join(w.root, local.Format("2006"), local.Format("01"), local.Format("2006-01-02")+".md")

	body := fmt.Sprintf("# %s\n", local.Format("Monday, 2 January 2006"))
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		rest, _, splitErr := markdown.SplitFrontmatter(string(existing), nil)
		if splitErr != nil {
			return "", fmt.Errorf("parse journal %s: %w", path, splitErr)
		}
		body = rest
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read journal: %w", err)
	}

	var total int64
	lines := make([]string, 0, len(sessions))
	for _, session := range sessions {
		total += session.DurationSeconds
		line := fmt.Sprintf("- %s · %s", session.Timestamp.In(w.loc).Format("15:04"), formatMinutes(session.DurationSeconds))
		if notes := strings.TrimSpace(session.Notes); notes != "" {
			line += " · " + strings.ReplaceAll(notes, "\n", " ")
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, "_No sessions recorded._")
	}
	body = markdown.ReplaceManagedBlock(body, journalStart, journalEnd, strings.Join(lines, "\n"))

	meta := journalMeta{
		SchemaVersion: domain.SchemaVersion,
		Date:          local.Format("2006-01-02"),
		Sessions:      len(sessions),
		TotalSeconds:  total,
	}
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal: %w", err)
	}
	return path, nil
}

func formatMinutes(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds%60 == 0 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
