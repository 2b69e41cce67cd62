// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord is the persisted form of GameRecord.
type GormGameRecord struct {
	gorm.Model
	RoomID          string `gorm:"index;not null"`
	Winner          string `gorm:"index;not null"`
	Loser           string `gorm:"index"`
	Turns           int    `gorm:"default:0"`
	DurationSeconds int    `gorm:"default:0"`
}

func (GormGameRecord) TableName() string {
	return "game_records"
}
