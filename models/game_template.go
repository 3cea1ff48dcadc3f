package models

import "time"

// GameTemplate is a game-type definition (group-sort, find-the-match, quiz).
// Every Game conforms to exactly one template; the template slug selects the
// engine variant that validates, derives and scores its content.
type GameTemplate struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:64;not null"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
