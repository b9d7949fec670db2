package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/viv500/GenesisAI/internal/entity"
	"github.com/viv500/GenesisAI/internal/model"
	"github.com/viv500/GenesisAI/pkg/canvas"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.PlacedNote {
	if n == nil {
		return nil
	}

	files := []string{}
	if len(n.Files) > 0 {
		// A malformed column reads as no files rather than failing the load.
		_ = json.Unmarshal(n.Files, &files)
	}

	sector, err := canvas.ParseSector(n.Sector)
	if err != nil {
		sector = canvas.Sector(n.Sector)
	}

	return &entity.PlacedNote{
		CheckpointID: n.CheckpointId,
		CanvasID:     n.CanvasKey,
		Order:        n.SortOrder,
		Note: canvas.Note{
			ID:       n.Id,
			Title:    n.Title,
			Content:  n.Content,
			Position: canvas.Position{X: n.PositionX, Y: n.PositionY},
			Color:    n.Color,
			Sector:   sector,
			Selected: n.Selected,
			Files:    files,
			ParentID: n.ParentId,
			ZIndex:   n.ZIndex,
		},
	}
}

func (m *NoteMapper) ToModel(p *entity.PlacedNote) *model.Note {
	if p == nil {
		return nil
	}

	files := p.Note.Files
	if files == nil {
		files = []string{}
	}
	raw, _ := json.Marshal(files)

	return &model.Note{
		CheckpointId: p.CheckpointID,
		Id:           p.Note.ID,
		CanvasKey:    p.CanvasID,
		SortOrder:    p.Order,
		Title:        p.Note.Title,
		Content:      p.Note.Content,
		PositionX:    p.Note.Position.X,
		PositionY:    p.Note.Position.Y,
		Color:        p.Note.Color,
		Sector:       string(p.Note.Sector),
		Selected:     p.Note.Selected,
		Files:        datatypes.JSON(raw),
		ParentId:     p.Note.ParentID,
		ZIndex:       p.Note.ZIndex,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.PlacedNote {
	entities := make([]*entity.PlacedNote, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NoteMapper) ToModels(notes []*entity.PlacedNote) []*model.Note {
	models := make([]*model.Note, len(notes))
	for i, n := range notes {
		models[i] = m.ToModel(n)
	}
	return models
}
