package contract

import (
	"context"

	"github.com/viv500/GenesisAI/internal/repository/specification"
	"github.com/viv500/GenesisAI/pkg/canvas"
)

type CheckpointRepository interface {
	Save(ctx context.Context, checkpoint *canvas.Checkpoint, sortOrder int) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*canvas.Checkpoint, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]canvas.Checkpoint, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
