package entitlement

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status of a membership subscription
type Status string

const (
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
)

// Benefits is the validated view of the membership rules blob. The raw
// column is loosely-typed JSON written by the billing system; decoding
// failure or missing fields denies access rather than defaulting, since
// these are entitlement gates.
type Benefits struct {
	MaxBlockMinutes    int  `json:"max_block_minutes"`
	MaxBookingsPerWeek int  `json:"max_bookings_per_week"`
	AdvanceBookingDays int  `json:"advance_booking_days"`
	WalkInAllowed      bool `json:"walk_in_allowed"`
	PremiumTimeAccess  bool `json:"premium_time_access"`
}

// rawBenefits uses pointers so a missing field is distinguishable from a
// zero value.
type rawBenefits struct {
	MaxBlockMinutes    *int  `json:"max_block_minutes"`
	MaxBookingsPerWeek *int  `json:"max_bookings_per_week"`
	AdvanceBookingDays *int  `json:"advance_booking_days"`
	WalkInAllowed      *bool `json:"walk_in_allowed"`
	PremiumTimeAccess  *bool `json:"premium_time_access"`
}

// Subscription tracks an active membership for a customer. Mutated by
// billing webhooks; this service only reads it and derives weekly usage.
type Subscription struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID         int64           `gorm:"column:customer_id;index" json:"customer_id"`
	MembershipID       int64           `gorm:"column:membership_id" json:"membership_id"`
	Status             Status          `gorm:"column:status" json:"status"`
	CurrentPeriodStart time.Time       `gorm:"column:current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   time.Time       `gorm:"column:current_period_end" json:"current_period_end"`
	BenefitsRaw        json.RawMessage `gorm:"column:benefits;type:text" json:"benefits"`
	CreatedAt          time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the subscription can authorize bookings.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive && time.Now().Before(s.CurrentPeriodEnd)
}

// DecodeBenefits validates the rules blob. Every field must be present.
func (s *Subscription) DecodeBenefits() (*Benefits, error) {
	if len(s.BenefitsRaw) == 0 {
		return nil, ErrBenefitsInvalid
	}
	var raw rawBenefits
	if err := json.Unmarshal(s.BenefitsRaw, &raw); err != nil {
		return nil, ErrBenefitsInvalid
	}
	if raw.MaxBlockMinutes == nil || raw.MaxBookingsPerWeek == nil ||
		raw.AdvanceBookingDays == nil || raw.WalkInAllowed == nil || raw.PremiumTimeAccess == nil {
		return nil, ErrBenefitsInvalid
	}
	if *raw.MaxBlockMinutes <= 0 || *raw.MaxBookingsPerWeek <= 0 || *raw.AdvanceBookingDays < 0 {
		return nil, ErrBenefitsInvalid
	}
	return &Benefits{
		MaxBlockMinutes:    *raw.MaxBlockMinutes,
		MaxBookingsPerWeek: *raw.MaxBookingsPerWeek,
		AdvanceBookingDays: *raw.AdvanceBookingDays,
		WalkInAllowed:      *raw.WalkInAllowed,
		PremiumTimeAccess:  *raw.PremiumTimeAccess,
	}, nil
}

// PunchPass is a consumable booking entitlement. Debited by 1 on booking
// creation, credited back on cancellation before use.
type PunchPass struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID       int64     `gorm:"column:customer_id;index" json:"customer_id"`
	ProductID        int64     `gorm:"column:product_id" json:"product_id"`
	PunchesRemaining int       `gorm:"column:punches_remaining" json:"punches_remaining"`
	TotalPunches     int       `gorm:"column:total_punches" json:"total_punches"`
	ExpiresAt        time.Time `gorm:"column:expires_at" json:"expires_at"`
	IsTransferable   bool      `gorm:"column:is_transferable" json:"is_transferable"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (PunchPass) TableName() string { return "punch_passes" }

func (p *PunchPass) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Ref points at exactly one entitlement backing a booking or waitlist entry.
type Ref struct {
	SubscriptionID *uuid.UUID `json:"subscription_id,omitempty"`
	PunchPassID    *uuid.UUID `json:"punch_pass_id,omitempty"`
}

func (r Ref) Valid() bool {
	return (r.SubscriptionID != nil) != (r.PunchPassID != nil)
}

func (r Ref) IsPass() bool { return r.PunchPassID != nil }
