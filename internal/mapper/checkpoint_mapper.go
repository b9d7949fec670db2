package mapper

import (
	"github.com/viv500/GenesisAI/internal/model"
	"github.com/viv500/GenesisAI/pkg/canvas"
)

type CheckpointMapper struct{}

func NewCheckpointMapper() *CheckpointMapper {
	return &CheckpointMapper{}
}

func (m *CheckpointMapper) ToEntity(c *model.Checkpoint) *canvas.Checkpoint {
	if c == nil {
		return nil
	}
	return &canvas.Checkpoint{
		ID:    c.Id,
		Title: c.Title,
		Date:  c.Date,
	}
}

func (m *CheckpointMapper) ToModel(c *canvas.Checkpoint, sortOrder int) *model.Checkpoint {
	if c == nil {
		return nil
	}
	return &model.Checkpoint{
		Id:        c.ID,
		Title:     c.Title,
		Date:      c.Date,
		SortOrder: sortOrder,
	}
}

func (m *CheckpointMapper) ToEntities(checkpoints []*model.Checkpoint) []canvas.Checkpoint {
	entities := make([]canvas.Checkpoint, len(checkpoints))
	for i, c := range checkpoints {
		entities[i] = *m.ToEntity(c)
	}
	return entities
}
