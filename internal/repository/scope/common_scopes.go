package scope

import "gorm.io/gorm"

// InBoardOrder sorts notes the way they appear on their canvas.
func InBoardOrder(db *gorm.DB) *gorm.DB {
	return db.Order("checkpoint_id ASC").Order("canvas_key ASC").Order("sort_order ASC")
}

// InCheckpointOrder sorts checkpoints the way the board lists them.
func InCheckpointOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("date ASC").Order("id ASC")
}
