package availability

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func at(hours float64) time.Time {
	return base.Add(time.Duration(hours * float64(time.Hour)))
}

func TestSlotGridStates(t *testing.T) {
	// Two wheels, four one-hour slots. One booking covers the first two
	// hours, a class hold takes both wheels in the last hour.
	bookings := []Window{{Start: at(0), End: at(2)}}
	holds := []HoldWindow{{Window: Window{Start: at(3), End: at(4)}, Quantity: 2}}

	slots := SlotGrid(at(0), at(4), time.Hour, 2, bookings, holds)
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}

	if slots[0].State != SlotOpen || slots[0].Available != 1 {
		t.Fatalf("slot 0: expected open with 1 available, got %s/%d", slots[0].State, slots[0].Available)
	}
	if slots[2].State != SlotOpen || slots[2].Available != 2 {
		t.Fatalf("slot 2: expected fully open, got %s/%d", slots[2].State, slots[2].Available)
	}
	if slots[3].State != SlotHeld || slots[3].Available != 0 {
		t.Fatalf("slot 3: expected held, got %s/%d", slots[3].State, slots[3].Available)
	}
}

func TestSlotGridBookedBeatsHeldOnlyWhenHoldPartial(t *testing.T) {
	// One of two wheels held, the other booked: the slot is full but the
	// hold alone does not cover the quantity, so it reads as booked.
	bookings := []Window{{Start: at(0), End: at(1)}}
	holds := []HoldWindow{{Window: Window{Start: at(0), End: at(1)}, Quantity: 1}}

	slots := SlotGrid(at(0), at(1), time.Hour, 2, bookings, holds)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].State != SlotBooked {
		t.Fatalf("expected booked, got %s", slots[0].State)
	}
}

func TestSlotGridClipsLastSlot(t *testing.T) {
	slots := SlotGrid(at(0), at(1.5), time.Hour, 1, nil, nil)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[1].End.Equal(at(1.5)) {
		t.Fatalf("expected last slot clipped to session end, got %v", slots[1].End)
	}
}

func TestSlotGridHoldCappedAtQuantity(t *testing.T) {
	holds := []HoldWindow{{Window: Window{Start: at(0), End: at(1)}, Quantity: 5}}
	slots := SlotGrid(at(0), at(1), time.Hour, 2, nil, holds)
	if slots[0].Held != 2 {
		t.Fatalf("expected held capped at 2, got %d", slots[0].Held)
	}
	if slots[0].State != SlotHeld {
		t.Fatalf("expected held state, got %s", slots[0].State)
	}
}

func TestWindowOverlapsHalfOpen(t *testing.T) {
	w := Window{Start: at(0), End: at(1)}
	if w.Overlaps(at(1), at(2)) {
		t.Fatal("window ending at slot start must not overlap it")
	}
	if !w.Overlaps(at(0.5), at(1.5)) {
		t.Fatal("expected overlap on partial intersection")
	}
}

func TestWindowFullyOpenAdjacentBookings(t *testing.T) {
	// Quantity 1: a booking ending exactly where the request starts does
	// not block it.
	bookings := []Window{{Start: at(0), End: at(2)}}
	if !WindowFullyOpen(at(2), at(4), 1, bookings, nil) {
		t.Fatal("back-to-back windows on one unit should both fit")
	}
	if WindowFullyOpen(at(1), at(3), 1, bookings, nil) {
		t.Fatal("overlapping window on one unit must be rejected")
	}
}

func TestWindowFullyOpenMidWindowSpike(t *testing.T) {
	// Two wheels. The request spans four hours; in the middle hour both
	// wheels are taken, so the whole window must be rejected even though
	// its edges are free.
	bookings := []Window{
		{Start: at(1), End: at(2)},
		{Start: at(1.5), End: at(2.5)},
	}
	if WindowFullyOpen(at(0), at(4), 2, bookings, nil) {
		t.Fatal("expected rejection: both units taken mid-window")
	}
	if !WindowFullyOpen(at(2.5), at(4), 2, bookings, nil) {
		t.Fatal("expected acceptance after the spike clears")
	}
}

func TestWindowFullyOpenCountsHoldQuantity(t *testing.T) {
	holds := []HoldWindow{{Window: Window{Start: at(1), End: at(2)}, Quantity: 2}}
	if WindowFullyOpen(at(0), at(3), 2, nil, holds) {
		t.Fatal("hold consuming all units must close the window")
	}
	if !WindowFullyOpen(at(0), at(3), 3, nil, holds) {
		t.Fatal("one unit should remain past the hold")
	}
}

func TestWindowFullyOpenDegenerate(t *testing.T) {
	if WindowFullyOpen(at(1), at(1), 1, nil, nil) {
		t.Fatal("empty window is never open")
	}
	if WindowFullyOpen(at(0), at(1), 0, nil, nil) {
		t.Fatal("zero quantity is never open")
	}
}
