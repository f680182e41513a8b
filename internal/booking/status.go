package booking

import (
	"context"

	"github.com/jackc/pgx/v5"

	"slotbook/internal/fault"
	"slotbook/internal/model"
	"slotbook/internal/outbox"
	"slotbook/internal/storage"
)

// UpdateStatus moves a booking through its lifecycle. Confirming
// requires the start to still be in the future; cancelling releases the
// booking's slots. A repeat cancellation is a no-op, not an error.
func (e *Engine) UpdateStatus(ctx context.Context, masterID, bookingID, status string) (model.Booking, error) {
	var updated model.Booking
	err := e.pool.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := e.bookings.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			if storage.IsNotFound(err) {
				return fault.NotFoundf("booking not found")
			}
			return err
		}
		if b.MasterID != masterID {
			return fault.Forbiddenf("booking belongs to another master")
		}

		apply, err := transition(b.Status, status)
		if err != nil {
			return err
		}
		if !apply {
			updated = b
			return nil
		}
		if status == model.StatusConfirmed &&
			!startClock(b.Date, b.StartMinute, e.loc).After(e.now().In(e.loc)) {
			return fault.Conflictf("cannot confirm a booking that already started")
		}

		updated, err = e.bookings.UpdateStatus(ctx, tx, bookingID, status)
		if err != nil {
			return err
		}

		eventType := outbox.EventBookingStatusChanged
		if status == model.StatusCancelled {
			eventType = outbox.EventBookingCancelled
			if _, err := e.slots.ReleaseByBooking(ctx, tx, bookingID); err != nil {
				return err
			}
		}
		return e.emit(ctx, tx, eventType, updated)
	})
	if err != nil {
		return model.Booking{}, err
	}
	e.reconcileQuietly(ctx, updated.MasterID, updated.Date)
	return updated, nil
}

// Delete removes a booking entirely, releasing its slots first. Masters
// use it to scrub test or mistaken entries; cancellation is the normal
// path.
func (e *Engine) Delete(ctx context.Context, masterID, bookingID string) error {
	var removed model.Booking
	err := e.pool.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := e.bookings.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			if storage.IsNotFound(err) {
				return fault.NotFoundf("booking not found")
			}
			return err
		}
		if b.MasterID != masterID {
			return fault.Forbiddenf("booking belongs to another master")
		}
		removed = b

		if _, err := e.slots.ReleaseByBooking(ctx, tx, bookingID); err != nil {
			return err
		}
		removed.Status = model.StatusCancelled
		if err := e.emit(ctx, tx, outbox.EventBookingCancelled, removed); err != nil {
			return err
		}
		return e.bookings.Delete(ctx, tx, bookingID)
	})
	if err != nil {
		return err
	}
	e.reconcileQuietly(ctx, removed.MasterID, removed.Date)
	return nil
}
