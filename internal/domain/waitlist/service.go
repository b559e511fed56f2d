package waitlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"potterystudio/internal/domain/entitlement"
)

// EventSink receives waitlist notifications for the live feed. Nil sink is
// allowed and means no feed.
type EventSink interface {
	Publish(studioID int64, eventType string, payload any)
}

type Service struct {
	db   *gorm.DB
	repo *Repository
	sink EventSink
}

func NewService(db *gorm.DB, repo *Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (s *Service) SetEventSink(sink EventSink) {
	s.sink = sink
}

type JoinRequest struct {
	CustomerID int64
	ResourceID int64
	SessionID  int64
	StartTime  time.Time
	EndTime    time.Time
	Ref        entitlement.Ref
}

// Join appends the customer to the line for the requested window. The
// position is one past the highest ever issued for the slot, so positions of
// departed customers are never reused and remaining positions never shift.
func (s *Service) Join(ctx context.Context, req JoinRequest) (*Entry, error) {
	if !req.Ref.Valid() || !req.EndTime.After(req.StartTime) {
		return nil, ErrValidation
	}

	var entry *Entry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := s.repo.activeForSlot(tx, req.ResourceID, req.SessionID, req.StartTime)
		if err != nil {
			return err
		}
		for i := range active {
			if active[i].CustomerID == req.CustomerID {
				return ErrAlreadyWaitlisted
			}
		}

		var maxPos int
		err = tx.Model(&Entry{}).
			Where("resource_id = ? AND session_id = ? AND start_time = ?",
				req.ResourceID, req.SessionID, req.StartTime).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error
		if err != nil {
			return err
		}

		entry = &Entry{
			ID:             uuid.New(),
			ResourceID:     req.ResourceID,
			SessionID:      req.SessionID,
			CustomerID:     req.CustomerID,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			SubscriptionID: req.Ref.SubscriptionID,
			PunchPassID:    req.Ref.PunchPassID,
			Position:       maxPos + 1,
			JoinedAt:       time.Now().UTC(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Leave removes the caller's entry. Positions behind it are left untouched.
func (s *Service) Leave(ctx context.Context, entryID uuid.UUID, customerID int64, role string) (*Entry, error) {
	var entry *Entry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e Entry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, "id = ?", entryID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if e.CustomerID != customerID && role != "staff" {
			return ErrForbidden
		}
		if e.RemovedAt != nil {
			return ErrNotFound
		}

		now := time.Now().UTC()
		e.RemovedAt = &now
		entry = &e
		return tx.Model(&Entry{}).Where("id = ?", e.ID).Update("removed_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PromoteHead marks the lowest-positioned active entry for the slot as
// notified and emits a live event. It does not book on the customer's behalf;
// the slot stays open until the customer acts, and a faster customer can
// still take it.
func (s *Service) PromoteHead(ctx context.Context, resourceID, sessionID int64, start time.Time) error {
	var head *Entry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := s.repo.activeForSlot(tx, resourceID, sessionID, start)
		if err != nil {
			return err
		}
		if len(active) == 0 {
			return nil
		}

		now := time.Now().UTC()
		head = &active[0]
		head.NotifiedAt = &now
		return tx.Model(&Entry{}).Where("id = ?", head.ID).Update("notified_at", now).Error
	})
	if err != nil || head == nil {
		return err
	}

	if s.sink != nil {
		var studioID int64
		s.db.WithContext(ctx).Raw("SELECT studio_id FROM open_studio_sessions WHERE id = ?", sessionID).Scan(&studioID)
		s.sink.Publish(studioID, "waitlist.slot_opened", map[string]any{
			"entry_id":    head.ID,
			"customer_id": head.CustomerID,
			"resource_id": resourceID,
			"session_id":  sessionID,
			"start_time":  start,
		})
	}
	return nil
}

// MyEntries returns the caller's active waitlist entries.
func (s *Service) MyEntries(ctx context.Context, customerID int64) ([]Entry, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// SlotLine returns the active line for one slot, staff only at the handler.
func (s *Service) SlotLine(ctx context.Context, resourceID, sessionID int64, start time.Time) ([]Entry, error) {
	return s.repo.ListForSlot(ctx, resourceID, sessionID, start)
}
