package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
)

func (r *Repository) ListImports(ctx context.Context, page Page) ([]domain.ImportRecord, int64, error) {
	var total int64
	if err := r.conn(ctx).Model(&models.ImportRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.ImportRecord
	if err := page.apply(r.conn(ctx).Order("imported_at DESC")).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return domain.ImportRecordsFromRecords(records), total, nil
}

func (r *Repository) CreateImport(ctx context.Context, record domain.ImportRecord) error {
	row := record.ToRecord()
	return r.conn(ctx).Create(&row).Error
}

// DeleteImport removes the batch record and every participant tagged with
// its id.
func (r *Repository) DeleteImport(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("import_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.ImportRecord{}, id)
	})
}
