package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"slotbook/internal/model"
	"slotbook/libs/db"
)

// SlotRepository owns the slots table. Mutations that participate in a
// booking or merge transaction take the transaction explicitly.
type SlotRepository struct {
	pool *db.Pool
}

func NewSlotRepository(pool *db.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `
	id::text, master_id::text, day, start_minute, end_minute, duration_minutes,
	kind, is_available, COALESCE(booking_id::text, ''), created_at, updated_at`

func scanSlot(row pgx.Row) (model.Slot, error) {
	var s model.Slot
	err := row.Scan(&s.ID, &s.MasterID, &s.Date, &s.StartMinute, &s.EndMinute, &s.DurationMinutes,
		&s.Kind, &s.Available, &s.BookingID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Slot{}, err
	}
	return s, nil
}

func (r *SlotRepository) ListDay(ctx context.Context, q Querier, masterID string, day time.Time) ([]model.Slot, error) {
	rows, err := q.Query(ctx, `
		SELECT`+slotColumns+`
		FROM slots
		WHERE master_id = $1 AND day = $2
		ORDER BY start_minute
	`, masterID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []model.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *SlotRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, slotID string) (model.Slot, error) {
	return scanSlot(tx.QueryRow(ctx, `
		SELECT`+slotColumns+`
		FROM slots
		WHERE id = $1
		FOR UPDATE
	`, slotID))
}

// GetWorkByStartForUpdate locks the work slot starting exactly at the
// given minute. Missing rows come back as pgx.ErrNoRows.
func (r *SlotRepository) GetWorkByStartForUpdate(ctx context.Context, tx pgx.Tx, masterID string, day time.Time, startMinute int) (model.Slot, error) {
	return scanSlot(tx.QueryRow(ctx, `
		SELECT`+slotColumns+`
		FROM slots
		WHERE master_id = $1 AND day = $2 AND start_minute = $3 AND kind = 'work'
		FOR UPDATE
	`, masterID, day, startMinute))
}

func (r *SlotRepository) Insert(ctx context.Context, q Querier, s model.Slot) (model.Slot, error) {
	return scanSlot(q.QueryRow(ctx, `
		INSERT INTO slots (master_id, day, start_minute, end_minute, duration_minutes, kind, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING`+slotColumns+`
	`, s.MasterID, s.Date, s.StartMinute, s.EndMinute, s.DurationMinutes, s.Kind, s.Available))
}

// RefreshWindow updates the end and duration of a slot whose kind the
// generator left unchanged.
func (r *SlotRepository) RefreshWindow(ctx context.Context, q Querier, slotID string, endMinute, durationMinutes int) error {
	_, err := q.Exec(ctx, `
		UPDATE slots
		SET end_minute = $2, duration_minutes = $3, updated_at = now()
		WHERE id = $1
	`, slotID, endMinute, durationMinutes)
	return err
}

func (r *SlotRepository) SetKind(ctx context.Context, q Querier, slotID, kind string, available bool) (model.Slot, error) {
	return scanSlot(q.QueryRow(ctx, `
		UPDATE slots
		SET kind = $2, is_available = $3, updated_at = now()
		WHERE id = $1
		RETURNING`+slotColumns+`
	`, slotID, kind, available))
}

// Bind attaches every listed slot to a booking and marks it unavailable.
func (r *SlotRepository) Bind(ctx context.Context, tx pgx.Tx, slotIDs []string, bookingID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE slots
		SET booking_id = $2, is_available = false, updated_at = now()
		WHERE id = ANY($1)
	`, slotIDs, bookingID)
	return err
}

// BindAt binds the work slot at an exact start minute during
// reconciliation. It reports whether a row was actually bound.
func (r *SlotRepository) BindAt(ctx context.Context, q Querier, masterID string, day time.Time, startMinute int, bookingID string) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE slots
		SET booking_id = $4, is_available = false, updated_at = now()
		WHERE master_id = $1 AND day = $2 AND start_minute = $3 AND kind = 'work'
	`, masterID, day, startMinute, bookingID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReleaseByBooking detaches all slots of a booking and reopens the work
// ones. It returns the number of slots released.
func (r *SlotRepository) ReleaseByBooking(ctx context.Context, q Querier, bookingID string) (int64, error) {
	tag, err := q.Exec(ctx, `
		UPDATE slots
		SET booking_id = NULL,
			is_available = (kind = 'work'),
			updated_at = now()
		WHERE booking_id = $1
	`, bookingID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ResetDay clears every binding on a date and restores kind-default
// availability before reconciliation rebinds from the bookings table.
func (r *SlotRepository) ResetDay(ctx context.Context, q Querier, masterID string, day time.Time) error {
	_, err := q.Exec(ctx, `
		UPDATE slots
		SET booking_id = NULL,
			is_available = (kind = 'work'),
			updated_at = now()
		WHERE master_id = $1 AND day = $2
	`, masterID, day)
	return err
}

// PurgeCorrupt removes unbooked slots whose window collapsed to nothing.
func (r *SlotRepository) PurgeCorrupt(ctx context.Context, q Querier, masterID string, day time.Time) error {
	_, err := q.Exec(ctx, `
		DELETE FROM slots
		WHERE master_id = $1 AND day = $2 AND end_minute <= start_minute AND booking_id IS NULL
	`, masterID, day)
	return err
}

// PurgeUnbooked removes every slot on the date not held by a booking,
// used when the day turns non-working.
func (r *SlotRepository) PurgeUnbooked(ctx context.Context, q Querier, masterID string, day time.Time) error {
	_, err := q.Exec(ctx, `
		DELETE FROM slots
		WHERE master_id = $1 AND day = $2 AND booking_id IS NULL
	`, masterID, day)
	return err
}

// OverlapExists reports whether any slot on the date intersects the
// half-open minute range.
func (r *SlotRepository) OverlapExists(ctx context.Context, q Querier, masterID string, day time.Time, startMinute, endMinute int) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM slots
			WHERE master_id = $1 AND day = $2
				AND start_minute < $4 AND end_minute > $3
		)
	`, masterID, day, startMinute, endMinute).Scan(&exists)
	return exists, err
}

// LastWorkSlot returns the latest-starting work slot of the date, or nil
// when the date has none.
func (r *SlotRepository) LastWorkSlot(ctx context.Context, q Querier, masterID string, day time.Time) (*model.Slot, error) {
	s, err := scanSlot(q.QueryRow(ctx, `
		SELECT`+slotColumns+`
		FROM slots
		WHERE master_id = $1 AND day = $2 AND kind = 'work'
		ORDER BY start_minute DESC
		LIMIT 1
	`, masterID, day))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
