package contract

import (
	"context"

	"github.com/viv500/GenesisAI/internal/entity"
	"github.com/viv500/GenesisAI/internal/repository/specification"
)

type NoteRepository interface {
	CreateAll(ctx context.Context, notes []*entity.PlacedNote) error
	DeleteByCheckpoint(ctx context.Context, checkpointID string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PlacedNote, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PlacedNote, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
