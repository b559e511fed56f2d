package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"potterystudio/internal/domain/availability"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// OverlappingBookings implements availability.BookingSource: non-cancelled,
// non-completed bookings intersecting [from, to) for a resource.
func (r *Repository) OverlappingBookings(ctx context.Context, resourceID int64, from, to time.Time) ([]availability.BookingInfo, error) {
	var rows []Booking
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("status IN ?", []string{string(StatusReserved), string(StatusCheckedIn)}).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]availability.BookingInfo, 0, len(rows))
	for _, b := range rows {
		out = append(out, availability.BookingInfo{
			ID:         b.ID.String(),
			CustomerID: b.CustomerID,
			Start:      b.StartTime,
			End:        b.EndTime,
			Status:     string(b.Status),
			IsWalkIn:   b.IsWalkIn,
		})
	}
	return out, nil
}

// CountActiveBySubscription implements entitlement.BookingCounter: the
// number of non-cancelled bookings charged to a subscription with a start
// inside [from, to). Recomputed on demand, never cached.
func (r *Repository) CountActiveBySubscription(tx *gorm.DB, customerID int64, subscriptionID uuid.UUID, from, to time.Time) (int64, error) {
	var cnt int64
	err := tx.Model(&Booking{}).
		Where("customer_id = ?", customerID).
		Where("subscription_id = ?", subscriptionID).
		Where("status <> ?", string(StatusCancelled)).
		Where("start_time >= ? AND start_time < ?", from, to).
		Count(&cnt).Error
	return cnt, err
}

// windowsOnTx loads the occupied windows for a resource inside the
// caller's transaction. The resource row is already locked at this point,
// so the read cannot race another create on the same resource.
func windowsOnTx(tx *gorm.DB, resourceID int64, from, to time.Time) ([]availability.Window, error) {
	var rows []Booking
	err := tx.
		Where("resource_id = ?", resourceID).
		Where("status IN ?", []string{string(StatusReserved), string(StatusCheckedIn)}).
		Where("start_time < ? AND end_time > ?", to, from).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]availability.Window, 0, len(rows))
	for _, b := range rows {
		out = append(out, availability.Window{Start: b.StartTime, End: b.EndTime})
	}
	return out, nil
}

func getForUpdate(tx *gorm.DB, id uuid.UUID, b *Booking) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// MyBookingRow is the member-facing listing with resource and session
// context joined in.
type MyBookingRow struct {
	ID           string    `gorm:"column:id" json:"id"`
	Status       string    `gorm:"column:status" json:"status"`
	StartTime    time.Time `gorm:"column:start_time" json:"start_time"`
	EndTime      time.Time `gorm:"column:end_time" json:"end_time"`
	IsWalkIn     bool      `gorm:"column:is_walk_in" json:"is_walk_in"`
	ResourceID   int64     `gorm:"column:resource_id" json:"resource_id"`
	ResourceName string    `gorm:"column:resource_name" json:"resource_name"`
	SessionID    int64     `gorm:"column:session_id" json:"session_id"`
	SessionStart time.Time `gorm:"column:session_start" json:"session_start"`
	SessionEnd   time.Time `gorm:"column:session_end" json:"session_end"`
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]MyBookingRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []MyBookingRow
	q := `
SELECT
  b.id,
  b.status,
  b.start_time,
  b.end_time,
  b.is_walk_in,
  b.resource_id,
  r.name AS resource_name,
  b.session_id,
  s.start_time AS session_start,
  s.end_time AS session_end
FROM bookings b
JOIN resources r ON r.id = b.resource_id
JOIN open_studio_sessions s ON s.id = b.session_id
WHERE b.customer_id = ?
ORDER BY b.start_time DESC
LIMIT ? OFFSET ?
`
	tx := r.db.WithContext(ctx).Raw(q, customerID, limit, offset).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}
