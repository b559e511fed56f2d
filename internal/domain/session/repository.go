package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUpcoming returns non-cancelled sessions for a studio starting within
// the next horizonDays.
func (r *Repository) ListUpcoming(ctx context.Context, studioID int64, horizonDays int) ([]Session, error) {
	now := time.Now().UTC()
	until := now.AddDate(0, 0, horizonDays)

	var out []Session
	err := r.db.WithContext(ctx).
		Where("studio_id = ?", studioID).
		Where("is_cancelled = ?", false).
		Where("start_time >= ? AND start_time < ?", now, until).
		Order("start_time").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, s *Session) error {
	if !s.EndTime.After(s.StartTime) {
		return ErrValidation
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repository) Cancel(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ?", id).
		Update("is_cancelled", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CreateHold(ctx context.Context, h *ResourceHold) error {
	if h.Quantity <= 0 || !h.EndTime.After(h.StartTime) {
		return ErrValidation
	}
	return r.db.WithContext(ctx).Create(h).Error
}

// HoldsOverlapping returns class holds for a resource intersecting
// [from, to). Half-open interval semantics: a hold ending exactly at `from`
// does not count.
func (r *Repository) HoldsOverlapping(ctx context.Context, resourceID int64, from, to time.Time) ([]ResourceHold, error) {
	var out []ResourceHold
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
