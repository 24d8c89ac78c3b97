package in

import (
	"context"

	"medita/internal/modules/transfer/dto"
)

type Usecase interface {
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
}
