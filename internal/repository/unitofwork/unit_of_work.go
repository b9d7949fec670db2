package unitofwork

import (
	"context"

	"github.com/viv500/GenesisAI/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CheckpointRepository() contract.CheckpointRepository
	CanvasRepository() contract.CanvasRepository
	NoteRepository() contract.NoteRepository
}
