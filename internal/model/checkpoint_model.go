package model

import "time"

type Checkpoint struct {
	Id        string    `gorm:"type:varchar(64);primaryKey"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Date      time.Time `gorm:"not null;index"`
	SortOrder int       `gorm:"not null;default:0;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Checkpoint) TableName() string {
	return "checkpoints"
}
