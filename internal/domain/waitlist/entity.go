package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a customer's place in line for a specific resource window. An
// entry is active while both removed_at and notified_at are null. Positions
// are assigned once and never rewritten, so departures leave gaps.
type Entry struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID     int64      `gorm:"not null;index:idx_waitlist_slot" json:"resource_id"`
	SessionID      int64      `gorm:"not null;index:idx_waitlist_slot" json:"session_id"`
	CustomerID     int64      `gorm:"not null;index" json:"customer_id"`
	StartTime      time.Time  `gorm:"not null;index:idx_waitlist_slot" json:"start_time"`
	EndTime        time.Time  `gorm:"not null" json:"end_time"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid" json:"subscription_id,omitempty"`
	PunchPassID    *uuid.UUID `gorm:"type:uuid" json:"customer_punch_pass_id,omitempty"`
	Position       int        `gorm:"not null" json:"position"`
	JoinedAt       time.Time  `gorm:"not null" json:"joined_at"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	RemovedAt      *time.Time `json:"removed_at,omitempty"`
}

func (Entry) TableName() string {
	return "waitlist_entries"
}

// Active reports whether the entry still occupies its place in line.
func (e *Entry) Active() bool {
	return e.RemovedAt == nil && e.NotifiedAt == nil
}
