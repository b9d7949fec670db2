package implementation

import (
	"context"

	"gorm.io/gorm"

	"github.com/viv500/GenesisAI/internal/entity"
	"github.com/viv500/GenesisAI/internal/model"
	"github.com/viv500/GenesisAI/internal/repository/contract"
	"github.com/viv500/GenesisAI/internal/repository/specification"
)

type CanvasRepositoryImpl struct {
	db *gorm.DB
}

func NewCanvasRepository(db *gorm.DB) contract.CanvasRepository {
	return &CanvasRepositoryImpl{
		db: db,
	}
}

func (r *CanvasRepositoryImpl) CreateAll(ctx context.Context, entries []entity.CanvasEntry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]*model.Canvas, len(entries))
	for i, e := range entries {
		models[i] = &model.Canvas{CheckpointId: e.CheckpointID, CanvasKey: e.CanvasID}
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 200).Error
}

func (r *CanvasRepositoryImpl) DeleteByCheckpoint(ctx context.Context, checkpointID string) error {
	return r.db.WithContext(ctx).Where("checkpoint_id = ?", checkpointID).Delete(&model.Canvas{}).Error
}

func (r *CanvasRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.CanvasEntry, error) {
	var models []*model.Canvas
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Order("checkpoint_id ASC").Order("canvas_key ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]entity.CanvasEntry, len(models))
	for i, m := range models {
		entries[i] = entity.CanvasEntry{CheckpointID: m.CheckpointId, CanvasID: m.CanvasKey}
	}
	return entries, nil
}
