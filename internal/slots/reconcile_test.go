package slots

import (
	"testing"

	"slotbook/internal/model"
)

func daySlots(dur int, starts ...int) []model.Slot {
	slots := make([]model.Slot, 0, len(starts))
	for i, start := range starts {
		slots = append(slots, model.Slot{
			ID:              string(rune('a' + i)),
			StartMinute:     start,
			EndMinute:       start + dur,
			DurationMinutes: dur,
			Kind:            model.SlotWork,
			Available:       true,
		})
	}
	return slots
}

func TestPlanBindingsSingleSlotBooking(t *testing.T) {
	slots := daySlots(30, 540, 570, 600)
	bookings := []model.Booking{
		{ID: "b1", StartMinute: 570, EndMinute: 600, Status: model.StatusPending},
	}

	bindings, misses := planBindings(slots, bookings)
	if len(misses) != 0 {
		t.Fatalf("unexpected misses: %+v", misses)
	}
	if len(bindings) != 1 || bindings[0].SlotID != "b" || bindings[0].BookingID != "b1" {
		t.Fatalf("unexpected bindings: %+v", bindings)
	}
}

func TestPlanBindingsChainCoversCeilOfDuration(t *testing.T) {
	slots := daySlots(30, 540, 570, 600, 630)
	// 75 minutes over 30-minute units needs 3 slots.
	bookings := []model.Booking{
		{ID: "b1", StartMinute: 540, EndMinute: 615, Status: model.StatusConfirmed},
	}

	bindings, misses := planBindings(slots, bookings)
	if len(misses) != 0 {
		t.Fatalf("unexpected misses: %+v", misses)
	}
	if len(bindings) != 3 {
		t.Fatalf("got %d bindings, want 3: %+v", len(bindings), bindings)
	}
	for i, want := range []string{"a", "b", "c"} {
		if bindings[i].SlotID != want {
			t.Fatalf("binding %d hit slot %q, want %q", i, bindings[i].SlotID, want)
		}
	}
}

func TestPlanBindingsReportsGapsButKeepsRest(t *testing.T) {
	// The 570 slot is missing; the booking still claims 540 and 600.
	slots := daySlots(30, 540, 600)
	bookings := []model.Booking{
		{ID: "b1", StartMinute: 540, EndMinute: 630, Status: model.StatusPending},
	}

	bindings, misses := planBindings(slots, bookings)
	if len(bindings) != 2 {
		t.Fatalf("got %d bindings, want 2: %+v", len(bindings), bindings)
	}
	if len(misses) != 1 || misses[0].StartMinute != 570 {
		t.Fatalf("want a miss at 570, got %+v", misses)
	}
}

func TestPlanBindingsMissingHeadSlot(t *testing.T) {
	slots := daySlots(30, 600)
	bookings := []model.Booking{
		{ID: "b1", StartMinute: 540, EndMinute: 570, Status: model.StatusPending},
	}

	bindings, misses := planBindings(slots, bookings)
	if len(bindings) != 0 {
		t.Fatalf("unexpected bindings: %+v", bindings)
	}
	if len(misses) != 1 || misses[0].BookingID != "b1" {
		t.Fatalf("want one miss for b1, got %+v", misses)
	}
}

func TestPlanBindingsIgnoresNonWorkSlots(t *testing.T) {
	slots := []model.Slot{
		{ID: "a", StartMinute: 540, EndMinute: 570, DurationMinutes: 30, Kind: model.SlotBlocked},
	}
	bookings := []model.Booking{
		{ID: "b1", StartMinute: 540, EndMinute: 570, Status: model.StatusPending},
	}

	bindings, misses := planBindings(slots, bookings)
	if len(bindings) != 0 || len(misses) != 1 {
		t.Fatalf("blocked slot must not bind: bindings=%+v misses=%+v", bindings, misses)
	}
}

func TestPlanBindingsReleasesCancelledBooking(t *testing.T) {
	slots := daySlots(30, 540, 570, 600)
	// The cancelled chain claims nothing; after the day reset its slots
	// stay on kind-default availability. The pending booking still binds.
	bookings := []model.Booking{
		{ID: "b1", StartMinute: 540, EndMinute: 600, Status: model.StatusCancelled},
		{ID: "b2", StartMinute: 600, EndMinute: 630, Status: model.StatusPending},
	}

	bindings, misses := planBindings(slots, bookings)
	if len(misses) != 0 {
		t.Fatalf("unexpected misses: %+v", misses)
	}
	if len(bindings) != 1 || bindings[0].BookingID != "b2" || bindings[0].SlotID != "c" {
		t.Fatalf("only the pending booking should bind, got %+v", bindings)
	}
}

func TestPlanBindingsIgnoresCompletedBooking(t *testing.T) {
	slots := daySlots(30, 540)
	bookings := []model.Booking{
		{ID: "b1", StartMinute: 540, EndMinute: 570, Status: model.StatusCompleted},
	}

	bindings, misses := planBindings(slots, bookings)
	if len(bindings) != 0 || len(misses) != 0 {
		t.Fatalf("completed booking must claim nothing: bindings=%+v misses=%+v", bindings, misses)
	}
}

func TestPlanBindingsIdempotentShape(t *testing.T) {
	slots := daySlots(30, 540, 570)
	bookings := []model.Booking{
		{ID: "b1", StartMinute: 540, EndMinute: 600, Status: model.StatusConfirmed},
	}

	first, _ := planBindings(slots, bookings)
	second, _ := planBindings(slots, bookings)
	if len(first) != len(second) {
		t.Fatalf("plans differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("binding %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
