package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"potterystudio/internal/domain/availability"
	"potterystudio/internal/domain/entitlement"
	"potterystudio/internal/domain/resource"
	"potterystudio/internal/domain/session"
)

// SessionSource supplies the session a booking is anchored to.
type SessionSource interface {
	GetByID(ctx context.Context, id int64) (*session.Session, error)
}

// Promoter is implemented by the waitlist engine. Promotion is
// notify-only: the promoted member must act on their own to book.
type Promoter interface {
	PromoteHead(ctx context.Context, resourceID, sessionID int64, start time.Time) error
}

// EventSink receives best-effort domain events for the front-desk live
// feed. Business logic never depends on delivery.
type EventSink interface {
	Publish(studioID int64, eventType string, payload any)
}

// Service is the booking state machine. Create runs the availability
// re-check, the entitlement debit and the insert as one transaction with
// the resource row write-locked, so two requests for the last unit cannot
// both pass a stale availability read.
type Service struct {
	db           *gorm.DB
	repo         *Repository
	sessions     SessionSource
	entitlements *entitlement.Service
	promoter     Promoter
	sink         EventSink
	retries      int
	grace        time.Duration
}

func NewService(db *gorm.DB, repo *Repository, sessions SessionSource, entitlements *entitlement.Service, retries int, grace time.Duration) *Service {
	return &Service{
		db:           db,
		repo:         repo,
		sessions:     sessions,
		entitlements: entitlements,
		retries:      retries,
		grace:        grace,
	}
}

// SetPromoter wires the waitlist engine in after construction.
func (s *Service) SetPromoter(p Promoter) { s.promoter = p }

// SetEventSink wires the live feed in after construction.
func (s *Service) SetEventSink(sink EventSink) { s.sink = sink }

type CreateRequest struct {
	CustomerID int64
	SessionID  int64
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
	Ref        entitlement.Ref
	WalkIn     bool
}

// Create reserves a resource unit for the requested window. On success the
// entitlement has been debited and the booking persisted atomically; on
// any expected failure nothing has changed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if !req.Ref.Valid() {
		return nil, entitlement.ErrRefInvalid
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrValidation
	}

	sess, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.IsCancelled {
		return nil, session.ErrNotFound
	}
	if req.StartTime.Before(sess.StartTime) || req.EndTime.After(sess.EndTime) {
		return nil, ErrValidation
	}
	if !req.WalkIn && time.Now().After(req.StartTime) {
		return nil, ErrValidation
	}

	var created *Booking
	attempts := s.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		created, err = s.tryCreate(ctx, sess, req)
		if err == nil {
			break
		}
		if !retryableConflict(err) {
			return nil, err
		}
	}
	if err != nil {
		// Conflict retries exhausted: surface as capacity loss, the only
		// honest answer once another writer has won the slot.
		if retryableConflict(err) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	if s.sink != nil {
		s.sink.Publish(sess.StudioID, "booking.created", created)
	}
	return created, nil
}

func (s *Service) tryCreate(ctx context.Context, sess *session.Session, req CreateRequest) (*Booking, error) {
	var created *Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the resource row. Every create for this resource serializes
		// here, which makes the availability re-read below safe.
		var res resource.Resource
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, req.ResourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resource.ErrNotFound
			}
			return err
		}
		if !res.IsActive {
			return resource.ErrNotFound
		}

		if err := s.entitlements.AuthorizeTx(tx, entitlement.AuthorizeRequest{
			CustomerID: req.CustomerID,
			Ref:        req.Ref,
			Start:      req.StartTime,
			End:        req.EndTime,
			WalkIn:     req.WalkIn,
		}); err != nil {
			return err
		}

		windows, err := windowsOnTx(tx, req.ResourceID, req.StartTime, req.EndTime)
		if err != nil {
			return err
		}

		var holds []session.ResourceHold
		if err := tx.
			Where("resource_id = ?", req.ResourceID).
			Where("start_time < ? AND end_time > ?", req.EndTime, req.StartTime).
			Find(&holds).Error; err != nil {
			return err
		}
		holdWindows := make([]availability.HoldWindow, 0, len(holds))
		for _, h := range holds {
			holdWindows = append(holdWindows, availability.HoldWindow{
				Window:   availability.Window{Start: h.StartTime, End: h.EndTime},
				Quantity: h.Quantity,
			})
		}

		// The requested window must be fully open, not just partially.
		if !availability.WindowFullyOpen(req.StartTime, req.EndTime, res.Quantity, windows, holdWindows) {
			return ErrSlotUnavailable
		}

		if err := s.entitlements.DebitTx(tx, req.Ref); err != nil {
			return err
		}

		b := &Booking{
			SessionID:      req.SessionID,
			ResourceID:     req.ResourceID,
			CustomerID:     req.CustomerID,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			Status:         StatusReserved,
			IsWalkIn:       req.WalkIn,
			SubscriptionID: req.Ref.SubscriptionID,
			PunchPassID:    req.Ref.PunchPassID,
			ReservedAt:     time.Now().UTC(),
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateWalkIn is the front-desk path: books from now through the session
// end, skipping the advance-window check. Subscription walk-ins require
// the membership's walk-in flag; punch-pass walk-ins need none.
func (s *Service) CreateWalkIn(ctx context.Context, customerID, sessionID, resourceID int64, ref entitlement.Ref) (*Booking, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	start := now
	if start.Before(sess.StartTime) {
		start = sess.StartTime
	}
	if !start.Before(sess.EndTime) {
		return nil, ErrValidation
	}

	return s.Create(ctx, CreateRequest{
		CustomerID: customerID,
		SessionID:  sessionID,
		ResourceID: resourceID,
		StartTime:  start,
		EndTime:    sess.EndTime,
		Ref:        ref,
		WalkIn:     true,
	})
}

// CheckIn moves a reserved booking to checked_in when now falls inside
// [session start − grace, session end].
func (s *Service) CheckIn(ctx context.Context, bookingID uuid.UUID, actorID int64, actorRole string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actorID && actorRole != "staff" {
		return nil, ErrForbidden
	}
	if !canTransition(b.Status, StatusCheckedIn) {
		return nil, ErrInvalidStatusTransition
	}

	sess, err := s.sessions.GetByID(ctx, b.SessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if now.Before(sess.StartTime.Add(-s.grace)) || now.After(sess.EndTime) {
		return nil, ErrCheckInWindowClosed
	}

	err = s.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", b.ID, string(StatusReserved)).
		Updates(map[string]any{
			"status":        string(StatusCheckedIn),
			"checked_in_at": now,
			"updated_at":    now,
		}).Error
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.sink != nil {
		s.sink.Publish(sess.StudioID, "booking.checked_in", updated)
	}
	return updated, nil
}

// Cancel terminates a reserved or checked-in booking. The entitlement is
// credited back only when cancellation happens strictly before the booking
// start; no-shows are not refunded. Freeing the slot triggers waitlist
// promotion for the exact (resource, session, start) group.
func (s *Service) Cancel(ctx context.Context, bookingID uuid.UUID, actorID int64, actorRole string) (*Booking, error) {
	var cancelled *Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b Booking
		if err := getForUpdate(tx, bookingID, &b); err != nil {
			return err
		}
		if b.CustomerID != actorID && actorRole != "staff" {
			return ErrForbidden
		}
		if !canTransition(b.Status, StatusCancelled) {
			return ErrInvalidStatusTransition
		}

		now := time.Now().UTC()
		if err := tx.Model(&Booking{}).
			Where("id = ?", b.ID).
			Updates(map[string]any{
				"status":       string(StatusCancelled),
				"cancelled_at": now,
				"updated_at":   now,
			}).Error; err != nil {
			return err
		}

		if now.Before(b.StartTime) {
			ref := entitlement.Ref{SubscriptionID: b.SubscriptionID, PunchPassID: b.PunchPassID}
			if err := s.entitlements.CreditTx(tx, ref); err != nil {
				return err
			}
		}

		b.Status = StatusCancelled
		b.CancelledAt = &now
		cancelled = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.promoter != nil {
		_ = s.promoter.PromoteHead(ctx, cancelled.ResourceID, cancelled.SessionID, cancelled.StartTime)
	}
	if s.sink != nil {
		if sess, err := s.sessions.GetByID(ctx, cancelled.SessionID); err == nil {
			s.sink.Publish(sess.StudioID, "booking.cancelled", cancelled)
		}
	}
	return cancelled, nil
}

// Complete is the staff close-out of a checked-in booking after the
// session has ended.
func (s *Service) Complete(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(b.Status, StatusCompleted) {
		return nil, ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", b.ID, string(StatusCheckedIn)).
		Updates(map[string]any{
			"status":     string(StatusCompleted),
			"updated_at": now,
		}).Error
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, bookingID)
}

func (s *Service) MyBookings(ctx context.Context, customerID int64, limit, offset int) ([]MyBookingRow, error) {
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}

// retryableConflict matches storage-level races worth one more attempt:
// serialization failures, deadlocks, and unique-index collisions from a
// concurrent insert. Business rejections are never retried.
func retryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "23505":
			return true
		}
	}
	return false
}
