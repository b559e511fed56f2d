package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	var e Entry
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// activeForSlot loads the active entries for one (resource, session, start)
// line under FOR UPDATE, ordered by position.
func (r *Repository) activeForSlot(tx *gorm.DB, resourceID, sessionID int64, start time.Time) ([]Entry, error) {
	var entries []Entry
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("resource_id = ? AND session_id = ? AND start_time = ? AND removed_at IS NULL AND notified_at IS NULL",
			resourceID, sessionID, start).
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}

// ListForSlot returns the active line in position order, for staff views.
func (r *Repository) ListForSlot(ctx context.Context, resourceID, sessionID int64, start time.Time) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("resource_id = ? AND session_id = ? AND start_time = ? AND removed_at IS NULL AND notified_at IS NULL",
			resourceID, sessionID, start).
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}

// ListByCustomer returns a customer's active entries across all slots.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND removed_at IS NULL", customerID).
		Order("joined_at ASC").
		Find(&entries).Error
	return entries, err
}
