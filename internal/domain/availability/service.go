package availability

import (
	"context"
	"time"

	"potterystudio/internal/domain/resource"
	"potterystudio/internal/domain/session"
)

// SessionSource supplies the session window being queried.
type SessionSource interface {
	GetByID(ctx context.Context, id int64) (*session.Session, error)
}

// ResourceSource supplies the bookable inventory of the studio.
type ResourceSource interface {
	List(ctx context.Context, studioID int64, includeInactive bool) ([]resource.Resource, error)
}

// HoldSource supplies class-held capacity overlapping a window.
type HoldSource interface {
	HoldsOverlapping(ctx context.Context, resourceID int64, from, to time.Time) ([]session.ResourceHold, error)
}

// BookingInfo is the booking detail included for staff views.
type BookingInfo struct {
	ID         string    `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	IsWalkIn   bool      `json:"is_walk_in"`
}

// BookingSource supplies non-cancelled bookings overlapping a window.
type BookingSource interface {
	OverlappingBookings(ctx context.Context, resourceID int64, from, to time.Time) ([]BookingInfo, error)
}

// ResourceAvailability is the computed grid for one resource.
type ResourceAvailability struct {
	ResourceID    int64         `json:"resource_id"`
	ResourceName  string        `json:"resource_name"`
	TotalQuantity int           `json:"total_quantity"`
	HeldByClasses int           `json:"held_by_classes"`
	CurrentlyBooked int         `json:"currently_booked"`
	Available     int           `json:"available"`
	Slots         []Slot        `json:"slots"`
	Bookings      []BookingInfo `json:"bookings,omitempty"`
}

// SessionAvailability is the full availability answer for a session.
type SessionAvailability struct {
	Session   *session.Session       `json:"session"`
	Resources []ResourceAvailability `json:"resources"`
}

// Service computes availability grids. It is the single source of truth
// for slot states; callers (including the UI) never re-derive overlap
// logic from raw booking lists.
type Service struct {
	sessions    SessionSource
	resources   ResourceSource
	holds       HoldSource
	bookings    BookingSource
	granularity time.Duration
}

func NewService(sessions SessionSource, resources ResourceSource, holds HoldSource, bookings BookingSource, granularity time.Duration) *Service {
	return &Service{
		sessions:    sessions,
		resources:   resources,
		holds:       holds,
		bookings:    bookings,
		granularity: granularity,
	}
}

// ForSession recomputes the grid for every active resource of the
// session's studio. includeBookings attaches booking rows for staff views.
func (s *Service) ForSession(ctx context.Context, sessionID int64, includeBookings bool) (*SessionAvailability, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resources, err := s.resources.List(ctx, sess.StudioID, false)
	if err != nil {
		return nil, err
	}

	out := &SessionAvailability{
		Session:   sess,
		Resources: make([]ResourceAvailability, 0, len(resources)),
	}

	for _, res := range resources {
		ra, err := s.forResource(ctx, sess, res, includeBookings)
		if err != nil {
			return nil, err
		}
		out.Resources = append(out.Resources, *ra)
	}
	return out, nil
}

func (s *Service) forResource(ctx context.Context, sess *session.Session, res resource.Resource, includeBookings bool) (*ResourceAvailability, error) {
	holds, err := s.holds.HoldsOverlapping(ctx, res.ID, sess.StartTime, sess.EndTime)
	if err != nil {
		return nil, err
	}
	holdWindows := make([]HoldWindow, 0, len(holds))
	for _, h := range holds {
		holdWindows = append(holdWindows, HoldWindow{
			Window:   Window{Start: h.StartTime, End: h.EndTime},
			Quantity: h.Quantity,
		})
	}

	bookings, err := s.bookings.OverlappingBookings(ctx, res.ID, sess.StartTime, sess.EndTime)
	if err != nil {
		return nil, err
	}
	bookingWindows := make([]Window, 0, len(bookings))
	for _, b := range bookings {
		bookingWindows = append(bookingWindows, Window{Start: b.Start, End: b.End})
	}

	slots := SlotGrid(sess.StartTime, sess.EndTime, s.granularity, res.Quantity, bookingWindows, holdWindows)

	// Session-level summary is the peak concurrent usage across slots.
	peakHeld, peakBooked, minAvailable := 0, 0, res.Quantity
	for _, slot := range slots {
		if slot.Held > peakHeld {
			peakHeld = slot.Held
		}
		if slot.Booked > peakBooked {
			peakBooked = slot.Booked
		}
		if slot.Available < minAvailable {
			minAvailable = slot.Available
		}
	}

	ra := &ResourceAvailability{
		ResourceID:      res.ID,
		ResourceName:    res.Name,
		TotalQuantity:   res.Quantity,
		HeldByClasses:   peakHeld,
		CurrentlyBooked: peakBooked,
		Available:       minAvailable,
		Slots:           slots,
	}
	if includeBookings {
		ra.Bookings = bookings
	}
	return ra, nil
}
