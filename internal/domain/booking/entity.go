package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusReserved  Status = "reserved"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Booking is one reservation of a single resource unit for a sub-window of
// an Open Studio session. Cancelled and completed are terminal.
type Booking struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID      int64      `gorm:"column:session_id;index" json:"session_id"`
	ResourceID     int64      `gorm:"column:resource_id;index" json:"resource_id"`
	CustomerID     int64      `gorm:"column:customer_id;index" json:"customer_id"`
	StartTime      time.Time  `gorm:"column:start_time;index" json:"start_time"`
	EndTime        time.Time  `gorm:"column:end_time" json:"end_time"`
	Status         Status     `gorm:"column:status;index" json:"status"`
	IsWalkIn       bool       `gorm:"column:is_walk_in;default:false" json:"is_walk_in"`
	SubscriptionID *uuid.UUID `gorm:"column:subscription_id;type:uuid" json:"subscription_id,omitempty"`
	PunchPassID    *uuid.UUID `gorm:"column:punch_pass_id;type:uuid" json:"punch_pass_id,omitempty"`
	ReservedAt     time.Time  `gorm:"column:reserved_at" json:"reserved_at"`
	CheckedInAt    *time.Time `gorm:"column:checked_in_at" json:"checked_in_at,omitempty"`
	CancelledAt    *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Active reports whether the booking occupies capacity.
func (b *Booking) Active() bool {
	return b.Status == StatusReserved || b.Status == StatusCheckedIn
}

// canTransition encodes the state machine. No edges leave cancelled or
// completed.
func canTransition(from, to Status) bool {
	switch from {
	case StatusReserved:
		return to == StatusCheckedIn || to == StatusCancelled
	case StatusCheckedIn:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}
