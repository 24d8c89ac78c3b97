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

	transferout "medita/internal/modules/transfer/adapter/out"
	"medita/internal/modules/transfer/domain"
	transferdto "medita/internal/modules/transfer/dto"
	transferin "medita/internal/modules/transfer/port/in"
	"medita/internal/modules/transfer/service"
	"medita/internal/modules/transfer/usecase"
	"medita/internal/platform/clock"
	apperrors "medita/internal/platform/errors"
)

type fakeSessions struct {
	records []domain.Record
}

func (f *fakeSessions) ListAll(context.Context) ([]domain.Record, error) {
	return append([]domain.Record(nil), f.records...), nil
}

func (f *fakeSessions) Exists(_ context.Context, ts time.Time) (bool, error) {
	for _, r := range f.records {
		if r.Timestamp.Equal(ts) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessions) Add(_ context.Context, record domain.Record) error {
	f.records = append(f.records, record)
	return nil
}

func newTransfer(sessions *fakeSessions) transferin.Usecase {
	svc := service.NewTransferService(sessions, transferout.NewFileSystem(), clock.Fixed{At: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}, zerolog.Nop())
	return usecase.NewInteractor(svc)
}

func ts(day int) time.Time {
	return time.Date(2024, 1, day, 7, 0, 0, 0, time.UTC)
}

func TestExportThenImportIntoEmptyStore(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	source := &fakeSessions{records: []domain.Record{
		{Timestamp: ts(2), DurationSeconds: 600, Notes: "b"},
		{Timestamp: ts(1), DurationSeconds: 300, Notes: "a"},
	}}
	for _, name := range []string{"backup.json", "backup.yaml"} {
		path := filepath.Join(dir, name)
		out, err := newTransfer(source).Export(context.Background(), transferdto.ExportInput{Path: path})
		if err != nil {
			t.Fatalf("export %s: %v", name, err)
		}
		if out.Count != 2 || out.Format != string(domain.FormatFromPath(name)) {
			t.Fatalf("unexpected export output %+v", out)
		}

		target := &fakeSessions{}
		report, err := newTransfer(target).Import(context.Background(), transferdto.ImportInput{Path: path})
		if err != nil {
			t.Fatalf("import %s: %v", name, err)
		}
		if report.Total != 2 || report.Imported != 2 || report.Duplicates != 0 || report.Malformed != 0 {
			t.Fatalf("unexpected report %+v", report)
		}
		if len(target.records) != 2 || !target.records[0].Timestamp.Equal(ts(1)) || target.records[1].Notes != "b" {
			t.Fatalf("unexpected imported records %+v", target.records)
		}
	}
}

func TestImportCountsDuplicatesAndMalformed(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "in.json")
	payload := `{"version": 1, "sessions": [
  {"timestamp": "2024-01-01T07:00:00Z", "durationSeconds": 300},
  {"timestamp": "2024-01-02T07:00:00Z", "durationSeconds": 300},
  {"timestamp": "2024-01-02T08:00:00+01:00", "durationSeconds": 999},
  {"timestamp": "2024-01-03T07:00:00Z", "durationSeconds": -1},
  {"timestamp": "2024-01-04T07:00:00Z", "durationSeconds": 60}
]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := &fakeSessions{records: []domain.Record{{Timestamp: ts(1), DurationSeconds: 300}}}
	uc := newTransfer(store)

	dry, err := uc.Import(context.Background(), transferdto.ImportInput{Path: path, DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !dry.DryRun || dry.Imported != 2 || dry.Duplicates != 2 || dry.Malformed != 1 || dry.Total != 5 {
		t.Fatalf("unexpected dry run report %+v", dry)
	}
	if len(store.records) != 1 {
		t.Fatalf("dry run must not write, store has %d", len(store.records))
	}

	report, err := uc.Import(context.Background(), transferdto.ImportInput{Path: path})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 2 || report.Duplicates != 2 || report.Malformed != 1 || len(report.Problems) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !strings.Contains(report.Problems[0], "record 3") {
		t.Fatalf("problem should name the record: %q", report.Problems[0])
	}

	again, err := uc.Import(context.Background(), transferdto.ImportInput{Path: path})
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if again.Imported != 0 || again.Duplicates != 4 {
		t.Fatalf("reimport should only find duplicates: %+v", again)
	}
}

func TestImportFailsOnMalformedContainer(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "sess`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := &fakeSessions{}
	if _, err := newTransfer(store).Import(context.Background(), transferdto.ImportInput{Path: path}); !errors.Is(err, apperrors.ErrMalformedDocument) {
		t.Fatalf("expected malformed document, got %v", err)
	}
	if len(store.records) != 0 {
		t.Fatalf("nothing should be imported")
	}
}

func TestTransferValidatesInput(t *testing.T) {
	t.Parallel()
	uc := newTransfer(&fakeSessions{})
	if _, err := uc.Export(context.Background(), transferdto.ExportInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected missing path error, got %v", err)
	}
	if _, err := uc.Export(context.Background(), transferdto.ExportInput{Path: "x.json", Format: "csv"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected format error, got %v", err)
	}
	if _, err := uc.Import(context.Background(), transferdto.ImportInput{Path: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatalf("missing file should fail")
	}
}
