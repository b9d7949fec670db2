package unitofwork

import (
	"context"

	"gorm.io/gorm"

	"github.com/viv500/GenesisAI/internal/model"
)

type RepositoryFactoryImpl struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db: db,
	}
}

// NewUnitOfWork is short lived, one per board mutation or load.
func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db)
}

func (f *RepositoryFactoryImpl) Migrate(ctx context.Context) error {
	return f.db.WithContext(ctx).AutoMigrate(model.All()...)
}
