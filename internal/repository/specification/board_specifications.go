package specification

import "gorm.io/gorm"

type ByCheckpointID struct {
	CheckpointID string
}

func (s ByCheckpointID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("checkpoint_id = ?", s.CheckpointID)
}

type ByCanvasKey struct {
	CanvasKey string
}

func (s ByCanvasKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("canvas_key = ?", s.CanvasKey)
}

type ByTitle struct {
	Title string
}

func (s ByTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title = ?", s.Title)
}
