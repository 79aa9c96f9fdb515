package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
)

func (r *Repository) ListCategories(ctx context.Context, page Page) ([]domain.Category, int64, error) {
	var total int64
	if err := r.conn(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Category
	if err := page.apply(r.conn(ctx).Order("name")).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return domain.CategoriesFromRecords(records), total, nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	var record models.Category
	if err := r.conn(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return domain.Category{}, notFound(err)
	}
	return domain.CategoryFromRecord(record), nil
}

func (r *Repository) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	record := category.ToRecord()
	if err := r.conn(ctx).Create(&record).Error; err != nil {
		return domain.Category{}, err
	}
	return domain.CategoryFromRecord(record), nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	var record models.Category
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", category.ID).First(&record).Error; err != nil {
			return notFound(err)
		}
		record.Name = category.Name
		return tx.Save(&record).Error
	})
	if err != nil {
		return domain.Category{}, err
	}
	return domain.CategoryFromRecord(record), nil
}

// DeleteCategory removes only the category row. Templates and participants
// keep pointing at the deleted id.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.conn(ctx), &models.Category{}, id)
}
