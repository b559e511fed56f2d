package entitlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingCounter is implemented by the booking repository. Weekly usage is
// always recomputed from booking rows; it is never a stored counter, so it
// cannot drift after cancellations.
type BookingCounter interface {
	CountActiveBySubscription(tx *gorm.DB, customerID int64, subscriptionID uuid.UUID, from, to time.Time) (int64, error)
}

// Service is the entitlement ledger: it authorizes, debits and credits
// consumable access rights. The Tx variants run on the caller's
// transaction so a failed booking insert rolls the debit back with it.
type Service struct {
	repo     *Repository
	bookings BookingCounter
}

func NewService(repo *Repository, bookings BookingCounter) *Service {
	return &Service{repo: repo, bookings: bookings}
}

// AuthorizeRequest describes the booking attempt being gated.
type AuthorizeRequest struct {
	CustomerID int64
	Ref        Ref
	Start      time.Time
	End        time.Time
	WalkIn     bool
}

// AuthorizeTx checks the entitlement against the requested window inside
// the caller's transaction. It returns a typed reason on every expected
// business condition and never mutates state.
func (s *Service) AuthorizeTx(tx *gorm.DB, req AuthorizeRequest) error {
	if !req.Ref.Valid() {
		return ErrRefInvalid
	}
	now := time.Now().UTC()

	if req.Ref.IsPass() {
		var pass PunchPass
		if err := getPassForUpdate(tx, *req.Ref.PunchPassID, &pass); err != nil {
			return err
		}
		if pass.CustomerID != req.CustomerID {
			return ErrNotFound
		}
		if !pass.ExpiresAt.After(now) {
			return ErrPassExpired
		}
		if pass.PunchesRemaining <= 0 {
			return ErrPassExhausted
		}
		// Punch passes have no block-length cap beyond session bounds and
		// no advance window; pass walk-ins need no flag either.
		return nil
	}

	var sub Subscription
	if err := getSubscriptionForUpdate(tx, *req.Ref.SubscriptionID, &sub); err != nil {
		return err
	}
	if sub.CustomerID != req.CustomerID {
		return ErrNotFound
	}
	if !sub.IsActive() {
		return ErrNoActiveSubscription
	}

	benefits, err := sub.DecodeBenefits()
	if err != nil {
		// Fail closed: a malformed rules blob denies, it never defaults.
		return err
	}

	requestedMinutes := int(req.End.Sub(req.Start) / time.Minute)
	if requestedMinutes > benefits.MaxBlockMinutes {
		return ErrBlockTooLong
	}

	if req.WalkIn {
		if !benefits.WalkInAllowed {
			return ErrWalkInNotAllowed
		}
	} else if req.Start.After(now.AddDate(0, 0, benefits.AdvanceBookingDays)) {
		return ErrAdvanceWindow
	}

	weekStart, weekEnd := WeekBounds(req.Start)
	used, err := s.bookings.CountActiveBySubscription(tx, req.CustomerID, sub.ID, weekStart, weekEnd)
	if err != nil {
		return err
	}
	if used >= int64(benefits.MaxBookingsPerWeek) {
		return ErrWeeklyLimitReached
	}
	return nil
}

// DebitTx consumes one unit of the entitlement. For punch passes this is a
// locked decrement; for subscriptions the week's usage is derived from
// booking rows, so the insert itself is the debit.
func (s *Service) DebitTx(tx *gorm.DB, ref Ref) error {
	if !ref.Valid() {
		return ErrRefInvalid
	}
	if !ref.IsPass() {
		return nil
	}

	var pass PunchPass
	if err := getPassForUpdate(tx, *ref.PunchPassID, &pass); err != nil {
		return err
	}
	if pass.PunchesRemaining <= 0 {
		return ErrPassExhausted
	}
	return tx.Model(&PunchPass{}).
		Where("id = ?", pass.ID).
		Updates(map[string]any{
			"punches_remaining": gorm.Expr("punches_remaining - 1"),
			"updated_at":        time.Now().UTC(),
		}).Error
}

// CreditTx is the inverse of DebitTx. Callers apply it only when the
// cancelled booking had not yet started; no-shows get no refund.
func (s *Service) CreditTx(tx *gorm.DB, ref Ref) error {
	if !ref.Valid() {
		return ErrRefInvalid
	}
	if !ref.IsPass() {
		return nil
	}

	var pass PunchPass
	if err := getPassForUpdate(tx, *ref.PunchPassID, &pass); err != nil {
		return err
	}
	return tx.Model(&PunchPass{}).
		Where("id = ?", pass.ID).
		Updates(map[string]any{
			"punches_remaining": gorm.Expr("punches_remaining + 1"),
			"updated_at":        time.Now().UTC(),
		}).Error
}

// MySubscription returns the customer's subscription with decoded benefits
// for display; a broken blob is reported, not hidden.
func (s *Service) MySubscription(ctx context.Context, customerID int64) (*Subscription, *Benefits, error) {
	sub, err := s.repo.GetActiveSubscriptionByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	benefits, err := sub.DecodeBenefits()
	if err != nil {
		return sub, nil, nil
	}
	return sub, benefits, nil
}

func (s *Service) MyPasses(ctx context.Context, customerID int64) ([]PunchPass, error) {
	return s.repo.ListPassesByCustomer(ctx, customerID)
}

// WeekBounds returns the ISO week containing t: Monday 00:00 UTC through
// the following Monday.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 7)
}
