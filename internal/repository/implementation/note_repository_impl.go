package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/viv500/GenesisAI/internal/entity"
	"github.com/viv500/GenesisAI/internal/mapper"
	"github.com/viv500/GenesisAI/internal/model"
	"github.com/viv500/GenesisAI/internal/repository/contract"
	"github.com/viv500/GenesisAI/internal/repository/scope"
	"github.com/viv500/GenesisAI/internal/repository/specification"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) CreateAll(ctx context.Context, notes []*entity.PlacedNote) error {
	if len(notes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(r.mapper.ToModels(notes), 200).Error
}

func (r *NoteRepositoryImpl) DeleteByCheckpoint(ctx context.Context, checkpointID string) error {
	return r.db.WithContext(ctx).Where("checkpoint_id = ?", checkpointID).Delete(&model.Note{}).Error
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PlacedNote, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PlacedNote, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...).Scopes(scope.InBoardOrder)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
