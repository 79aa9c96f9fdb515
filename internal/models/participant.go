package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Participant struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	Email      string     `gorm:"not null;index" json:"email"`
	EventID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	CategoryID uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	ImportID   *uuid.UUID `gorm:"type:uuid;index" json:"import_id"`
	Var1       string     `json:"var1"`
	Var2       string     `json:"var2"`
	Var3       string     `json:"var3"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (participant *Participant) BeforeCreate(tx *gorm.DB) (err error) {
	if participant.ID == uuid.Nil {
		participant.ID = uuid.New()
	}
	return
}
