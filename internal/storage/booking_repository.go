package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"slotbook/internal/model"
	"slotbook/libs/db"
)

type BookingRepository struct {
	pool *db.Pool
}

func NewBookingRepository(pool *db.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `
	id::text, master_id::text, service_id::text, day, start_minute, end_minute,
	status, client_name, client_email, client_phone, created_at, updated_at, cancelled_at`

func scanBooking(row pgx.Row) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.MasterID, &b.ServiceID, &b.Date, &b.StartMinute, &b.EndMinute,
		&b.Status, &b.ClientName, &b.ClientEmail, &b.ClientPhone, &b.CreatedAt, &b.UpdatedAt, &b.CancelledAt)
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) Insert(ctx context.Context, tx pgx.Tx, b *model.Booking) (model.Booking, error) {
	return scanBooking(tx.QueryRow(ctx, `
		INSERT INTO bookings
			(master_id, service_id, day, start_minute, end_minute, status,
			 client_name, client_email, client_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING`+bookingColumns+`
	`, b.MasterID, b.ServiceID, b.Date, b.StartMinute, b.EndMinute, b.Status,
		b.ClientName, b.ClientEmail, b.ClientPhone))
}

func (r *BookingRepository) Get(ctx context.Context, q Querier, bookingID string) (model.Booking, error) {
	return scanBooking(q.QueryRow(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, bookingID))
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, bookingID string) (model.Booking, error) {
	return scanBooking(tx.QueryRow(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`, bookingID))
}

func (r *BookingRepository) listBy(ctx context.Context, where string, args ...any) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE `+where+`
		ORDER BY day, start_minute
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) ListByMaster(ctx context.Context, masterID string, from, to time.Time) ([]model.Booking, error) {
	return r.listBy(ctx, `master_id = $1 AND day >= $2 AND day <= $3`, masterID, from, to)
}

func (r *BookingRepository) ListByClientEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return r.listBy(ctx, `client_email = $1`, email)
}

// ListActiveByDate returns pending and confirmed bookings for one date,
// ordered by start minute. Reconciliation rebinds from exactly this set.
func (r *BookingRepository) ListActiveByDate(ctx context.Context, q Querier, masterID string, day time.Time) ([]model.Booking, error) {
	rows, err := q.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE master_id = $1 AND day = $2 AND status IN ('pending', 'confirmed')
		ORDER BY start_minute
	`, masterID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ActiveOverlapExists reports whether any pending or confirmed booking
// intersects the half-open minute range on the date.
func (r *BookingRepository) ActiveOverlapExists(ctx context.Context, q Querier, masterID string, day time.Time, startMinute, endMinute int) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE master_id = $1 AND day = $2
				AND status IN ('pending', 'confirmed')
				AND start_minute < $4 AND end_minute > $3
		)
	`, masterID, day, startMinute, endMinute).Scan(&exists)
	return exists, err
}

// ActiveExistsOnDate reports whether the date carries any pending or
// confirmed booking at all.
func (r *BookingRepository) ActiveExistsOnDate(ctx context.Context, q Querier, masterID string, day time.Time) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE master_id = $1 AND day = $2 AND status IN ('pending', 'confirmed')
		)
	`, masterID, day).Scan(&exists)
	return exists, err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, bookingID, status string) (model.Booking, error) {
	return scanBooking(tx.QueryRow(ctx, `
		UPDATE bookings
		SET status = $2,
			cancelled_at = CASE WHEN $2 = 'cancelled' THEN now() ELSE cancelled_at END,
			updated_at = now()
		WHERE id = $1
		RETURNING`+bookingColumns+`
	`, bookingID, status))
}

func (r *BookingRepository) Delete(ctx context.Context, tx pgx.Tx, bookingID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	return err
}
