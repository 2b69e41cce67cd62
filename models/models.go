// models/models.go
package models

import (
	"time"
)

// GameRecord is the result of one finished game.
type GameRecord struct {
	RoomID   string        `json:"room_id"`
	Winner   string        `json:"winner"`
	Loser    string        `json:"loser"`
	Turns    int           `json:"turns"`
	Duration time.Duration `json:"duration"`
}

// PlayerStats aggregates a player's finished games by nick.
type PlayerStats struct {
	Nick   string `json:"nick"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}
