package models

import (
	"encoding/json"
	"time"
)

// Game is one authored game instance. Content holds the answer-bearing
// document as jsonb; its shape is opaque here and typed by the owning
// template's engine variant. Deletion is hard: the row goes away so the
// unique name becomes reusable immediately.
type Game struct {
	ID          string          `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string          `json:"name" gorm:"uniqueIndex;size:128;not null"`
	Description string          `json:"description" gorm:"size:2000"`
	Thumbnail   string          `json:"thumbnail" gorm:"type:text"`
	IsPublished bool            `json:"is_published" gorm:"not null;default:false"`
	CreatorID   string          `json:"creator_id" gorm:"type:uuid;index;not null"`
	TemplateID  string          `json:"template_id" gorm:"type:uuid;index;not null"`
	Content     json.RawMessage `json:"content" gorm:"type:jsonb;not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Creator  User         `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Template GameTemplate `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
}
