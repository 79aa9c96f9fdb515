package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
	"github.com/farellandr/certportal/internal/state"
)

// GetSetting decodes the JSON value stored under key into out.
func (r *Repository) GetSetting(ctx context.Context, key string, out any) error {
	var setting models.AppSetting
	if err := r.conn(ctx).Where(&models.AppSetting{Key: key}).First(&setting).Error; err != nil {
		return notFound(err)
	}
	return json.Unmarshal([]byte(setting.Value), out)
}

func (r *Repository) PutSetting(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding setting %q: %w", key, err)
	}
	return r.putSetting(ctx, key, data)
}

func (r *Repository) putSetting(ctx context.Context, key string, raw []byte) error {
	setting := models.AppSetting{Key: key, Value: string(raw), UpdatedAt: time.Now().UTC()}
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// Sync applies one outbox op to the remote store.
func (r *Repository) Sync(ctx context.Context, op state.Op) error {
	switch op.Kind {
	case state.OpKindSetting:
		return r.putSetting(ctx, op.Key, op.Payload)
	default:
		return fmt.Errorf("unknown outbox op kind %q", op.Kind)
	}
}

// Hydrate loads every collection plus the stored theme and logo.
func (r *Repository) Hydrate(ctx context.Context) (state.Hydrated, error) {
	var h state.Hydrated
	var err error

	if h.Events, _, err = r.ListEvents(ctx, Page{}); err != nil {
		return h, fmt.Errorf("loading events: %w", err)
	}
	if h.Categories, _, err = r.ListCategories(ctx, Page{}); err != nil {
		return h, fmt.Errorf("loading categories: %w", err)
	}
	if h.Templates, _, err = r.ListTemplates(ctx, TemplateFilter{}, Page{}); err != nil {
		return h, fmt.Errorf("loading templates: %w", err)
	}
	if h.Participants, _, err = r.ListParticipants(ctx, ParticipantFilter{}, Page{}); err != nil {
		return h, fmt.Errorf("loading participants: %w", err)
	}
	if h.ImportHistory, _, err = r.ListImports(ctx, Page{}); err != nil {
		return h, fmt.Errorf("loading import history: %w", err)
	}

	var theme domain.ThemeConfig
	switch err := r.GetSetting(ctx, models.SettingTheme, &theme); {
	case err == nil:
		h.Theme = &theme
	case !errors.Is(err, ErrNotFound):
		return h, fmt.Errorf("loading theme: %w", err)
	}

	var logo string
	switch err := r.GetSetting(ctx, models.SettingLogo, &logo); {
	case err == nil:
		h.Logo = &logo
	case !errors.Is(err, ErrNotFound):
		return h, fmt.Errorf("loading logo: %w", err)
	}

	return h, nil
}
