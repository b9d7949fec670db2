package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/viv500/GenesisAI/internal/mapper"
	"github.com/viv500/GenesisAI/internal/model"
	"github.com/viv500/GenesisAI/internal/repository/contract"
	"github.com/viv500/GenesisAI/internal/repository/scope"
	"github.com/viv500/GenesisAI/internal/repository/specification"
	"github.com/viv500/GenesisAI/pkg/canvas"
)

type CheckpointRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CheckpointMapper
}

func NewCheckpointRepository(db *gorm.DB) contract.CheckpointRepository {
	return &CheckpointRepositoryImpl{
		db:     db,
		mapper: mapper.NewCheckpointMapper(),
	}
}

func (r *CheckpointRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Save inserts the checkpoint or overwrites the stored row with the same id.
// sortOrder is the checkpoint's position on the board.
func (r *CheckpointRepositoryImpl) Save(ctx context.Context, checkpoint *canvas.Checkpoint, sortOrder int) error {
	m := r.mapper.ToModel(checkpoint, sortOrder)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "date", "sort_order", "updated_at"}),
	}).Create(m).Error
}

func (r *CheckpointRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*canvas.Checkpoint, error) {
	var m model.Checkpoint
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// FindAll returns checkpoints in board order unless a spec orders them.
func (r *CheckpointRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]canvas.Checkpoint, error) {
	var models []*model.Checkpoint
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if len(specs) == 0 {
		query = query.Scopes(scope.InCheckpointOrder)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CheckpointRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Checkpoint{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
