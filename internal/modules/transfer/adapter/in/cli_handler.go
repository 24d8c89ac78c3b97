package in

import (
	"context"

	transferdto "medita/internal/modules/transfer/dto"
	transferin "medita/internal/modules/transfer/port/in"
)

type CLIHandler struct {
	usecase transferin.Usecase
}

func NewCLIHandler(usecase transferin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, path, format string) (transferdto.ExportOutput, error) {
	return h.usecase.Export(ctx, transferdto.ExportInput{Path: path, Format: format})
}

func (h CLIHandler) Import(ctx context.Context, path, format string, dryRun bool) (transferdto.ImportOutput, error) {
	return h.usecase.Import(ctx, transferdto.ImportInput{Path: path, Format: format, DryRun: dryRun})
}
