package resource

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns resources for a studio. Inactive resources are included
// only when includeInactive is set (staff views).
func (r *Repository) List(ctx context.Context, studioID int64, includeInactive bool) ([]Resource, error) {
	var out []Resource
	db := r.db.WithContext(ctx).Where("studio_id = ?", studioID)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Resource, error) {
	var res Resource
	err := r.db.WithContext(ctx).First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repository) Create(ctx context.Context, res *Resource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

// Update changes name and quantity. Quantity changes never touch existing
// bookings; the availability engine always recomputes against the current
// value.
func (r *Repository) Update(ctx context.Context, res *Resource) error {
	tx := r.db.WithContext(ctx).
		Model(&Resource{}).
		Where("id = ?", res.ID).
		Updates(map[string]any{
			"name":     res.Name,
			"quantity": res.Quantity,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-removes a resource. Rows are never deleted while
// bookings reference them.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).
		Model(&Resource{}).
		Where("id = ?", id).
		Update("is_active", false)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
