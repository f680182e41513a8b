package storage

import (
	"context"
	"time"

	"slotbook/internal/model"
	"slotbook/libs/db"
)

// ScheduleRepository handles weekly templates and per-date exceptions.
type ScheduleRepository struct {
	pool *db.Pool
}

func NewScheduleRepository(pool *db.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const templateColumns = `
	id::text, master_id::text, weekday, is_working,
	start_minute, end_minute, lunch_start_minute, lunch_end_minute, slot_minutes`

func (r *ScheduleRepository) ListTemplates(ctx context.Context, q Querier, masterID string) ([]model.WeeklyTemplate, error) {
	rows, err := q.Query(ctx, `
		SELECT`+templateColumns+`
		FROM weekly_templates
		WHERE master_id = $1
		ORDER BY weekday
	`, masterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []model.WeeklyTemplate
	for rows.Next() {
		var t model.WeeklyTemplate
		if err := rows.Scan(&t.ID, &t.MasterID, &t.Weekday, &t.IsWorking,
			&t.StartMinute, &t.EndMinute, &t.LunchStart, &t.LunchEnd, &t.SlotMinutes); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// GetTemplate returns the template for one weekday, or nil when the
// master has none for it.
func (r *ScheduleRepository) GetTemplate(ctx context.Context, q Querier, masterID string, weekday int) (*model.WeeklyTemplate, error) {
	var t model.WeeklyTemplate
	err := q.QueryRow(ctx, `
		SELECT`+templateColumns+`
		FROM weekly_templates
		WHERE master_id = $1 AND weekday = $2
	`, masterID, weekday).Scan(&t.ID, &t.MasterID, &t.Weekday, &t.IsWorking,
		&t.StartMinute, &t.EndMinute, &t.LunchStart, &t.LunchEnd, &t.SlotMinutes)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *ScheduleRepository) UpsertTemplate(ctx context.Context, q Querier, t model.WeeklyTemplate) error {
	_, err := q.Exec(ctx, `
		INSERT INTO weekly_templates
			(master_id, weekday, is_working, start_minute, end_minute,
			 lunch_start_minute, lunch_end_minute, slot_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (master_id, weekday) DO UPDATE SET
			is_working = EXCLUDED.is_working,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			lunch_start_minute = EXCLUDED.lunch_start_minute,
			lunch_end_minute = EXCLUDED.lunch_end_minute,
			slot_minutes = EXCLUDED.slot_minutes
	`, t.MasterID, t.Weekday, t.IsWorking, t.StartMinute, t.EndMinute,
		t.LunchStart, t.LunchEnd, t.SlotMinutes)
	return err
}

// SeedDefaultTemplates creates the standard week for a master with no
// templates at all: Monday to Friday 09:00-18:00 with lunch 13:00-14:00
// and 30-minute slots, weekend closed. Existing rows are left alone.
func (r *ScheduleRepository) SeedDefaultTemplates(ctx context.Context, masterID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO weekly_templates
			(master_id, weekday, is_working, start_minute, end_minute,
			 lunch_start_minute, lunch_end_minute, slot_minutes)
		SELECT $1, wd, wd BETWEEN 1 AND 5, 540, 1080,
			CASE WHEN wd BETWEEN 1 AND 5 THEN 780 ELSE 0 END,
			CASE WHEN wd BETWEEN 1 AND 5 THEN 840 ELSE 0 END,
			30
		FROM generate_series(0, 6) AS wd
		ON CONFLICT (master_id, weekday) DO NOTHING
	`, masterID)
	return err
}

const exceptionColumns = `id::text, master_id::text, day, is_working, reason, created_at`

// GetException returns the exception for a date, or nil when none exists.
func (r *ScheduleRepository) GetException(ctx context.Context, q Querier, masterID string, day time.Time) (*model.DateException, error) {
	var e model.DateException
	err := q.QueryRow(ctx, `
		SELECT `+exceptionColumns+`
		FROM date_exceptions
		WHERE master_id = $1 AND day = $2
	`, masterID, day).Scan(&e.ID, &e.MasterID, &e.Date, &e.IsWorking, &e.Reason, &e.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *ScheduleRepository) ListExceptions(ctx context.Context, masterID string, from, to time.Time) ([]model.DateException, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+exceptionColumns+`
		FROM date_exceptions
		WHERE master_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day
	`, masterID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exceptions []model.DateException
	for rows.Next() {
		var e model.DateException
		if err := rows.Scan(&e.ID, &e.MasterID, &e.Date, &e.IsWorking, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, e)
	}
	return exceptions, rows.Err()
}

func (r *ScheduleRepository) UpsertException(ctx context.Context, q Querier, e model.DateException) (model.DateException, error) {
	var out model.DateException
	err := q.QueryRow(ctx, `
		INSERT INTO date_exceptions (master_id, day, is_working, reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (master_id, day) DO UPDATE SET
			is_working = EXCLUDED.is_working,
			reason = EXCLUDED.reason
		RETURNING `+exceptionColumns+`
	`, e.MasterID, e.Date, e.IsWorking, e.Reason).Scan(
		&out.ID, &out.MasterID, &out.Date, &out.IsWorking, &out.Reason, &out.CreatedAt)
	if err != nil {
		return model.DateException{}, err
	}
	return out, nil
}
