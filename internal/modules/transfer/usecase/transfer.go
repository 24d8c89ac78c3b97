package usecase

import (
	"context"
	"fmt"
	"strings"

	"medita/internal/modules/transfer/domain"
	transferdto "medita/internal/modules/transfer/dto"
	transferin "medita/internal/modules/transfer/port/in"
	"medita/internal/modules/transfer/service"
	apperrors "medita/internal/platform/errors"
)

type Interactor struct {
	svc *service.TransferService
}

func NewInteractor(svc *service.TransferService) transferin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Export(ctx context.Context, input transferdto.ExportInput) (transferdto.ExportOutput, error) {
	format, err := resolveFormat(input.Path, input.Format)
	if err != nil {
		return transferdto.ExportOutput{}, err
	}
	count, err := i.svc.Export(ctx, input.Path, format)
	if err != nil {
		return transferdto.ExportOutput{}, err
	}
	return transferdto.ExportOutput{Path: input.Path, Format: string(format), Count: count}, nil
}

func (i *Interactor) Import(ctx context.Context, input transferdto.ImportInput) (transferdto.ImportOutput, error) {
	format, err := resolveFormat(input.Path, input.Format)
	if err != nil {
		return transferdto.ImportOutput{}, err
	}
	report, err := i.svc.Import(ctx, input.Path, format, input.DryRun)
	if err != nil {
		return transferdto.ImportOutput{}, err
	}
	return transferdto.ImportOutput{
		Total:      report.Total,
		Imported:   report.Imported,
		Duplicates: report.Duplicates,
		Malformed:  report.Malformed,
		Problems:   report.Problems,
		DryRun:     report.DryRun,
	}, nil
}

func resolveFormat(path, raw string) (domain.Format, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: path is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(raw) == "" {
		return domain.FormatFromPath(path), nil
	}
	return domain.ParseFormat(raw)
}
