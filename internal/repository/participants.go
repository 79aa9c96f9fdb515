package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
)

const participantBatchSize = 500

type ParticipantFilter struct {
	EventID    *uuid.UUID
	CategoryID *uuid.UUID
	ImportID   *uuid.UUID
}

func (r *Repository) ListParticipants(ctx context.Context, filter ParticipantFilter, page Page) ([]domain.Participant, int64, error) {
	query := func() *gorm.DB {
		q := r.conn(ctx).Model(&models.Participant{})
		if filter.EventID != nil {
			q = q.Where("event_id = ?", *filter.EventID)
		}
		if filter.CategoryID != nil {
			q = q.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.ImportID != nil {
			q = q.Where("import_id = ?", *filter.ImportID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Participant
	if err := page.apply(query().Order("name, email")).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return domain.ParticipantsFromRecords(records), total, nil
}

func (r *Repository) GetParticipant(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	var record models.Participant
	if err := r.conn(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return domain.Participant{}, notFound(err)
	}
	return domain.ParticipantFromRecord(record), nil
}

// FindParticipantsByEmail matches case-insensitively after trimming. No
// match is an empty slice, not an error.
func (r *Repository) FindParticipantsByEmail(ctx context.Context, email string) ([]domain.Participant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return []domain.Participant{}, nil
	}

	var records []models.Participant
	if err := r.conn(ctx).Where("LOWER(TRIM(email)) = ?", email).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return domain.ParticipantsFromRecords(records), nil
}

func (r *Repository) CreateParticipants(ctx context.Context, participants []domain.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	records := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		records = append(records, p.ToRecord())
	}
	return r.conn(ctx).CreateInBatches(&records, participantBatchSize).Error
}

func (r *Repository) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.conn(ctx), &models.Participant{}, id)
}
