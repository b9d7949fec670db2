package contract

import (
	"context"

	"github.com/viv500/GenesisAI/internal/entity"
	"github.com/viv500/GenesisAI/internal/repository/specification"
)

type CanvasRepository interface {
	CreateAll(ctx context.Context, entries []entity.CanvasEntry) error
	DeleteByCheckpoint(ctx context.Context, checkpointID string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.CanvasEntry, error)
}
