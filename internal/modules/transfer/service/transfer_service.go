package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"medita/internal/modules/transfer/domain"
	transferout "medita/internal/modules/transfer/port/out"
	"medita/internal/platform/clock"
	apperrors "medita/internal/platform/errors"
)

type TransferService struct {
	sessions transferout.SessionGateway
	files    transferout.FileSystem
	clock    clock.Clock
	logger   zerolog.Logger
}

func NewTransferService(sessions transferout.SessionGateway, files transferout.FileSystem, clk clock.Clock, logger zerolog.Logger) *TransferService {
	return &TransferService{sessions: sessions, files: files, clock: clk, logger: logger}
}

func (s *TransferService) Export(ctx context.Context, path string, format domain.Format) (int, error) {
	records, err := s.sessions.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load sessions: %w", err)
	}
	payload, err := domain.Encode(domain.Document{
		Version:    domain.DocumentVersion,
		ExportedAt: s.clock.Now(),
		Records:    records,
	}, format)
	if err != nil {
		return 0, err
	}
	if err := s.files.WriteFile(path, payload); err != nil {
		return 0, err
	}
	s.logger.Info().Str("path", path).Int("sessions", len(records)).Str("format", string(format)).Msg("export written")
	return len(records), nil
}

// Import adds every readable record whose timestamp is new both to the store
// and to the file. A dry run classifies records without writing anything.
func (s *TransferService) Import(ctx context.Context, path string, format domain.Format, dryRun bool) (domain.ImportReport, error) {
	payload, err := s.files.ReadFile(path)
	if err != nil {
		return domain.ImportReport{}, err
	}
	decoded, err := domain.Decode(payload, format)
	if err != nil {
		return domain.ImportReport{}, fmt.Errorf("decode %s: %w", path, err)
	}

	report := domain.ImportReport{
		Total:     len(decoded.Records) + len(decoded.Malformed),
		Malformed: len(decoded.Malformed),
		DryRun:    dryRun,
	}
	for _, problem := range decoded.Malformed {
		report.Problems = append(report.Problems, problem.String())
	}

	seen := domain.NewDuplicateFilter()
	for _, record := range decoded.Records {
		if !seen.Claim(record.Timestamp) {
			report.Duplicates++
			continue
		}
		exists, err := s.sessions.Exists(ctx, record.Timestamp)
		if err != nil {
			return report, fmt.Errorf("check duplicate: %w", err)
		}
		if exists {
			report.Duplicates++
			continue
		}
		if dryRun {
			report.Imported++
			continue
		}
		if err := s.sessions.Add(ctx, record); err != nil {
			if errors.Is(err, apperrors.ErrAlreadyExists) {
				report.Duplicates++
				continue
			}
			return report, fmt.Errorf("add session: %w", err)
		}
		report.Imported++
	}

	s.logger.Info().
		Str("path", path).
		Int("imported", report.Imported).
		Int("duplicates", report.Duplicates).
		Int("malformed", report.Malformed).
		Bool("dry_run", dryRun).
		Msg("import finished")
	return report, nil
}
