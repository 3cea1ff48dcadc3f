package models

import (
	"encoding/json"
	"time"
)

// GameScore is one immutable outcome of a single play attempt. Records are
// append-only: they are never updated or deleted, and a user may hold any
// number of them per game.
type GameScore struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string          `json:"user_id" gorm:"type:uuid;index;not null"`
	GameID    string          `json:"game_id" gorm:"type:uuid;index;not null"`
	Score     int             `json:"score" gorm:"not null"`
	TimeSpent *int            `json:"time_spent,omitempty"`
	GameData  json.RawMessage `json:"game_data,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time       `json:"created_at"`
}
