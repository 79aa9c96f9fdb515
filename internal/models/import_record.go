package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ImportStatusSuccess = "success"

type ImportRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ImportedAt   time.Time `gorm:"not null" json:"imported_at"`
	FileName     string    `gorm:"not null" json:"file_name"`
	RowCount     int       `gorm:"not null" json:"row_count"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	CategoryName string    `json:"category_name"`
	Status       string    `gorm:"not null;default:'success'" json:"status"`
}

func (ImportRecord) TableName() string {
	return "import_history"
}

func (record *ImportRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return
}
