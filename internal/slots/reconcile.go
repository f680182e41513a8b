package slots

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"slotbook/internal/model"
)

// binding attaches one slot to one booking during reconciliation.
type binding struct {
	SlotID    string
	BookingID string
}

// miss records a booking minute that had no work slot to bind.
type miss struct {
	BookingID   string
	StartMinute int
}

// planBindings walks every active booking and claims the chain of work
// slots it occupies, matching by exact start minute. Cancelled and
// completed bookings claim nothing, so a reconcile pass after a
// cancellation leaves every formerly held slot on its kind-default
// availability. A booking whose chain is incomplete still binds the
// slots it can reach; the gaps are reported so the caller can log them.
// Reconciliation never fails a request over drift, it repairs what it
// can see.
func planBindings(daySlots []model.Slot, active []model.Booking) ([]binding, []miss) {
	workByStart := make(map[int]model.Slot, len(daySlots))
	for _, s := range daySlots {
		if s.Kind == model.SlotWork {
			workByStart[s.StartMinute] = s
		}
	}

	var bindings []binding
	var misses []miss
	for _, b := range active {
		if !b.IsActive() {
			continue
		}
		duration := b.EndMinute - b.StartMinute
		if duration <= 0 {
			misses = append(misses, miss{BookingID: b.ID, StartMinute: b.StartMinute})
			continue
		}
		head, ok := workByStart[b.StartMinute]
		if !ok || head.DurationMinutes <= 0 {
			misses = append(misses, miss{BookingID: b.ID, StartMinute: b.StartMinute})
			continue
		}

		unit := head.DurationMinutes
		required := (duration + unit - 1) / unit
		for i := 0; i < required; i++ {
			start := b.StartMinute + i*unit
			s, ok := workByStart[start]
			if !ok {
				misses = append(misses, miss{BookingID: b.ID, StartMinute: start})
				continue
			}
			bindings = append(bindings, binding{SlotID: s.ID, BookingID: b.ID})
		}
	}
	return bindings, misses
}

// Reconcile rebuilds slot bindings for one date from the bookings table.
// It resets every binding on the date, then rebinds from the active
// bookings. The pass is idempotent and safe to run after any mutation.
func (s *Service) Reconcile(ctx context.Context, masterID string, day time.Time) error {
	return s.pool.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.slots.ResetDay(ctx, tx, masterID, day); err != nil {
			return err
		}
		daySlots, err := s.slots.ListDay(ctx, tx, masterID, day)
		if err != nil {
			return err
		}
		active, err := s.bookings.ListActiveByDate(ctx, tx, masterID, day)
		if err != nil {
			return err
		}

		bindings, misses := planBindings(daySlots, active)

		byBooking := map[string][]string{}
		for _, b := range bindings {
			byBooking[b.BookingID] = append(byBooking[b.BookingID], b.SlotID)
		}
		for bookingID, slotIDs := range byBooking {
			if err := s.slots.Bind(ctx, tx, slotIDs, bookingID); err != nil {
				return err
			}
		}

		for _, m := range misses {
			s.logger.Warn("reconcile: no slot for booking minute",
				"master_id", masterID,
				"day", model.FormatDate(day),
				"booking_id", m.BookingID,
				"start_minute", m.StartMinute,
			)
		}
		return nil
	})
}
