package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template rows carry no foreign key constraints: deleting a category or an
// event leaves the reference dangling.
type Template struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	CategoryID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	EventID         *uuid.UUID `gorm:"type:uuid;index" json:"event_id"`
	BackgroundImage string     `gorm:"type:text" json:"background_image"`
	Body            string     `gorm:"type:text;not null" json:"body"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (template *Template) BeforeCreate(tx *gorm.DB) (err error) {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	return
}
