package model

import "time"

type Canvas struct {
	CheckpointId string    `gorm:"type:varchar(64);primaryKey"`
	CanvasKey    string    `gorm:"type:varchar(128);primaryKey"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Canvas) TableName() string {
	return "canvases"
}
