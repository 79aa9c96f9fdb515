package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
)

type TemplateFilter struct {
	CategoryID *uuid.UUID
	EventID    *uuid.UUID
}

func (r *Repository) ListTemplates(ctx context.Context, filter TemplateFilter, page Page) ([]domain.Template, int64, error) {
	query := func() *gorm.DB {
		q := r.conn(ctx).Model(&models.Template{})
		if filter.CategoryID != nil {
			q = q.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.EventID != nil {
			q = q.Where("event_id = ?", *filter.EventID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Template
	if err := page.apply(query().Order("name")).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return domain.TemplatesFromRecords(records), total, nil
}

// TemplatesForCategory returns every template a participant of the category
// could resolve to, global and event-specific alike.
func (r *Repository) TemplatesForCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Template, error) {
	var records []models.Template
	if err := r.conn(ctx).Where("category_id = ?", categoryID).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return domain.TemplatesFromRecords(records), nil
}

func (r *Repository) GetTemplate(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	var record models.Template
	if err := r.conn(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return domain.Template{}, notFound(err)
	}
	return domain.TemplateFromRecord(record), nil
}

func (r *Repository) CreateTemplate(ctx context.Context, template domain.Template) (domain.Template, error) {
	record := template.ToRecord()
	if err := r.conn(ctx).Create(&record).Error; err != nil {
		return domain.Template{}, err
	}
	return domain.TemplateFromRecord(record), nil
}

func (r *Repository) UpdateTemplate(ctx context.Context, template domain.Template) (domain.Template, error) {
	var record models.Template
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", template.ID).First(&record).Error; err != nil {
			return notFound(err)
		}
		record.Name = template.Name
		record.CategoryID = template.CategoryID
		record.EventID = template.EventID
		record.BackgroundImage = template.BackgroundImage
		record.Body = template.Text
		return tx.Save(&record).Error
	})
	if err != nil {
		return domain.Template{}, err
	}
	return domain.TemplateFromRecord(record), nil
}

func (r *Repository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.conn(ctx), &models.Template{}, id)
}
