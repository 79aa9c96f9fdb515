package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/models"
)

func (r *Repository) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&models.Admin{}).Count(&n).Error
	return n, err
}

func (r *Repository) FindAdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	err := r.conn(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error
	return admin, notFound(err)
}

func (r *Repository) GetAdmin(ctx context.Context, id uuid.UUID) (models.Admin, error) {
	var admin models.Admin
	err := r.conn(ctx).Where("id = ?", id).First(&admin).Error
	return admin, notFound(err)
}

func (r *Repository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return conflict(r.conn(ctx).Create(admin).Error)
}

// UpdateAdmin writes name, email and password hash of an existing admin.
func (r *Repository) UpdateAdmin(ctx context.Context, admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	res := r.conn(ctx).Model(&models.Admin{}).Where("id = ?", admin.ID).Updates(map[string]any{
		"name":     admin.Name,
		"email":    admin.Email,
		"password": admin.Password,
	})
	if res.Error != nil {
		return conflict(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
