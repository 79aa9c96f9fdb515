package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
)

func (r *Repository) ListEvents(ctx context.Context, page Page) ([]domain.Event, int64, error) {
	var total int64
	if err := r.conn(ctx).Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Event
	if err := page.apply(r.conn(ctx).Order("date DESC, name")).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return domain.EventsFromRecords(records), total, nil
}

func (r *Repository) GetEvent(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	var record models.Event
	if err := r.conn(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return domain.Event{}, notFound(err)
	}
	return domain.EventFromRecord(record), nil
}

func (r *Repository) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	record := event.ToRecord()
	record.Date = domain.DateOnly(record.Date)
	if err := r.conn(ctx).Create(&record).Error; err != nil {
		return domain.Event{}, err
	}
	return domain.EventFromRecord(record), nil
}

func (r *Repository) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	var record models.Event
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", event.ID).First(&record).Error; err != nil {
			return notFound(err)
		}
		record.Name = event.Name
		record.Date = domain.DateOnly(event.Date)
		return tx.Save(&record).Error
	})
	if err != nil {
		return domain.Event{}, err
	}
	return domain.EventFromRecord(record), nil
}

// DeleteEvent removes the event and every participant registered to it.
// Templates and import history that reference the event are left alone.
func (r *Repository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Event{}, id)
	})
}
