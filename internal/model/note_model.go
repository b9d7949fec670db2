package model

import (
	"time"

	"gorm.io/datatypes"
)

type Note struct {
	CheckpointId string         `gorm:"type:varchar(64);primaryKey"`
	Id           string         `gorm:"type:varchar(128);primaryKey"`
	CanvasKey    string         `gorm:"type:varchar(128);not null;index"`
	SortOrder    int            `gorm:"not null;default:0"`
	Title        string         `gorm:"type:varchar(255)"`
	Content      string         `gorm:"type:text"`
	PositionX    float64        `gorm:"not null;default:0"`
	PositionY    float64        `gorm:"not null;default:0"`
	Color        string         `gorm:"type:varchar(64)"`
	Sector       string         `gorm:"type:varchar(32);not null"`
	Selected     bool           `gorm:"not null;default:false"`
	Files        datatypes.JSON `gorm:"type:json"`
	ParentId     *string        `gorm:"type:varchar(128)"`
	ZIndex       int            `gorm:"not null;default:0"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
