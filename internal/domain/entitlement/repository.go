package entitlement

import (
	"context"
	"errors"

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

func (r *Repository) GetSubscription(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetActiveSubscriptionByCustomer returns the customer's current
// subscription row, if any. Status filtering happens in the service so
// past_due can still be surfaced to the UI.
func (r *Repository) GetActiveSubscriptionByCustomer(ctx context.Context, customerID int64) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("current_period_end DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *Repository) GetPass(ctx context.Context, id uuid.UUID) (*PunchPass, error) {
	var pass PunchPass
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pass).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

func (r *Repository) ListPassesByCustomer(ctx context.Context, customerID int64) ([]PunchPass, error) {
	var out []PunchPass
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("expires_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// getPassForUpdate loads a pass row with a write lock inside the caller's
// transaction.
func getPassForUpdate(tx *gorm.DB, id uuid.UUID, pass *PunchPass) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(pass).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func getSubscriptionForUpdate(tx *gorm.DB, id uuid.UUID, sub *Subscription) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
