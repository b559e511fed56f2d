package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"potterystudio/internal/domain/resource"
	"potterystudio/internal/domain/session"
)

type stubSessions struct {
	sess *session.Session
}

func (s *stubSessions) GetByID(_ context.Context, id int64) (*session.Session, error) {
	if s.sess == nil || s.sess.ID != id {
		return nil, session.ErrNotFound
	}
	return s.sess, nil
}

type stubResources struct {
	list []resource.Resource
}

func (s *stubResources) List(_ context.Context, _ int64, _ bool) ([]resource.Resource, error) {
	return s.list, nil
}

type stubHolds struct {
	holds []session.ResourceHold
}

func (s *stubHolds) HoldsOverlapping(_ context.Context, resourceID int64, _, _ time.Time) ([]session.ResourceHold, error) {
	var out []session.ResourceHold
	for _, h := range s.holds {
		if h.ResourceID == resourceID {
			out = append(out, h)
		}
	}
	return out, nil
}

type stubBookings struct {
	byResource map[int64][]BookingInfo
}

func (s *stubBookings) OverlappingBookings(_ context.Context, resourceID int64, _, _ time.Time) ([]BookingInfo, error) {
	return s.byResource[resourceID], nil
}

func fixtureService(bookings *stubBookings) (*Service, *session.Session) {
	sess := &session.Session{
		ID:        10,
		StudioID:  1,
		StartTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
	}
	wheels := resource.Resource{ID: 1, StudioID: 1, Name: "Pottery Wheel", Quantity: 2, IsActive: true}
	holds := &stubHolds{holds: []session.ResourceHold{{
		ResourceID: 1,
		Quantity:   1,
		StartTime:  sess.StartTime,
		EndTime:    sess.StartTime.Add(time.Hour),
	}}}
	svc := NewService(&stubSessions{sess: sess}, &stubResources{list: []resource.Resource{wheels}}, holds, bookings, time.Hour)
	return svc, sess
}

func TestForSessionComputesGridAndSummary(t *testing.T) {
	sessStart := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookings{byResource: map[int64][]BookingInfo{
		1: {{ID: "b1", CustomerID: 201, Start: sessStart, End: sessStart.Add(2 * time.Hour), Status: "reserved"}},
	}}
	svc, sess := fixtureService(bookings)

	out, err := svc.ForSession(context.Background(), sess.ID, false)
	if err != nil {
		t.Fatalf("ForSession failed: %v", err)
	}
	if len(out.Resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(out.Resources))
	}

	ra := out.Resources[0]
	if len(ra.Slots) != 4 {
		t.Fatalf("expected 4 hourly slots, got %d", len(ra.Slots))
	}
	// First hour: one wheel held, one booked.
	if ra.Slots[0].State != SlotBooked || ra.Slots[0].Available != 0 {
		t.Fatalf("slot 0: expected full, got %s/%d", ra.Slots[0].State, ra.Slots[0].Available)
	}
	// Second hour: hold expired, booking still on.
	if ra.Slots[1].State != SlotOpen || ra.Slots[1].Available != 1 {
		t.Fatalf("slot 1: expected 1 available, got %s/%d", ra.Slots[1].State, ra.Slots[1].Available)
	}
	if ra.HeldByClasses != 1 || ra.CurrentlyBooked != 1 || ra.Available != 0 {
		t.Fatalf("unexpected summary: held=%d booked=%d available=%d", ra.HeldByClasses, ra.CurrentlyBooked, ra.Available)
	}
	if ra.Bookings != nil {
		t.Fatal("member view must not include booking rows")
	}
}

func TestForSessionIncludesBookingsForStaff(t *testing.T) {
	sessStart := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookings{byResource: map[int64][]BookingInfo{
		1: {{ID: "b1", CustomerID: 201, Start: sessStart, End: sessStart.Add(time.Hour), Status: "reserved"}},
	}}
	svc, sess := fixtureService(bookings)

	out, err := svc.ForSession(context.Background(), sess.ID, true)
	if err != nil {
		t.Fatalf("ForSession failed: %v", err)
	}
	if len(out.Resources[0].Bookings) != 1 {
		t.Fatalf("staff view must include booking rows, got %d", len(out.Resources[0].Bookings))
	}
}

func TestForSessionUnknownSession(t *testing.T) {
	svc, _ := fixtureService(&stubBookings{})
	if _, err := svc.ForSession(context.Background(), 999, false); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected session.ErrNotFound, got %v", err)
	}
}
