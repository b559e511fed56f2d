package availability

import (
	"sort"
	"time"
)

// SlotState classifies a slot for booking and UI purposes. Held and booked
// slots are both full; they are distinguished so the front desk can tell
// class holds from member demand.
type SlotState string

const (
	SlotOpen   SlotState = "open"
	SlotHeld   SlotState = "held"
	SlotBooked SlotState = "booked"
)

// Window is a half-open [Start, End) interval occupied by one booking unit.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps uses half-open semantics: a window ending exactly at a slot
// boundary does not occupy that slot.
func (w Window) Overlaps(start, end time.Time) bool {
	return w.Start.Before(end) && w.End.After(start)
}

// HoldWindow is class-held capacity over an interval.
type HoldWindow struct {
	Window
	Quantity int `json:"quantity"`
}

// Slot is one grid cell of the availability computation.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Held      int       `json:"held"`
	Booked    int       `json:"booked"`
	Available int       `json:"available"`
	State     SlotState `json:"state"`
}

// SlotGrid derives the slots spanning [sessionStart, sessionEnd) at the
// given granularity and computes per-slot occupancy against the current
// resource quantity. It is a pure function and is re-run fresh on every
// query; there is no cache to go stale.
func SlotGrid(sessionStart, sessionEnd time.Time, granularity time.Duration, quantity int, bookings []Window, holds []HoldWindow) []Slot {
	if !sessionEnd.After(sessionStart) || granularity <= 0 {
		return nil
	}

	var slots []Slot
	for cur := sessionStart; cur.Before(sessionEnd); cur = cur.Add(granularity) {
		end := cur.Add(granularity)
		if end.After(sessionEnd) {
			end = sessionEnd
		}

		held := 0
		for _, h := range holds {
			if h.Overlaps(cur, end) {
				held += h.Quantity
			}
		}
		if held > quantity {
			held = quantity
		}

		booked := 0
		for _, b := range bookings {
			if b.Overlaps(cur, end) {
				booked++
			}
		}

		available := quantity - held - booked
		if available < 0 {
			available = 0
		}

		state := SlotOpen
		switch {
		case available > 0:
			state = SlotOpen
		case held >= quantity:
			state = SlotHeld
		default:
			state = SlotBooked
		}

		slots = append(slots, Slot{
			Start:     cur,
			End:       end,
			Held:      held,
			Booked:    booked,
			Available: available,
			State:     state,
		})
	}
	return slots
}

// WindowFullyOpen reports whether [start, end) has at least one free unit
// at every instant. It sweeps the boundary points of the overlapping
// bookings and holds, so it is exact for any granularity. This is the
// predicate the booking engine re-checks inside its transaction.
func WindowFullyOpen(start, end time.Time, quantity int, bookings []Window, holds []HoldWindow) bool {
	if !end.After(start) || quantity <= 0 {
		return false
	}

	points := []time.Time{start}
	appendPoint := func(t time.Time) {
		if t.After(start) && t.Before(end) {
			points = append(points, t)
		}
	}
	for _, b := range bookings {
		appendPoint(b.Start)
		appendPoint(b.End)
	}
	for _, h := range holds {
		appendPoint(h.Start)
		appendPoint(h.End)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })

	for _, p := range points {
		used := 0
		for _, b := range bookings {
			if b.Start.Before(p.Add(time.Nanosecond)) && b.End.After(p) {
				used++
			}
		}
		for _, h := range holds {
			if h.Start.Before(p.Add(time.Nanosecond)) && h.End.After(p) {
				used += h.Quantity
			}
		}
		if used >= quantity {
			return false
		}
	}
	return true
}
