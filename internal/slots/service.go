// Package slots keeps the slot table of each master's day in step with
// the weekly schedule, date exceptions and bookings.
package slots

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"slotbook/internal/fault"
	"slotbook/internal/model"
	"slotbook/internal/schedule"
	"slotbook/internal/storage"
	"slotbook/libs/db"
)

type Service struct {
	pool     *db.Pool
	slots    *storage.SlotRepository
	schedule *storage.ScheduleRepository
	bookings *storage.BookingRepository
	logger   *slog.Logger
}

func NewService(pool *db.Pool, slots *storage.SlotRepository, sched *storage.ScheduleRepository, bookings *storage.BookingRepository, logger *slog.Logger) *Service {
	return &Service{
		pool:     pool,
		slots:    slots,
		schedule: sched,
		bookings: bookings,
		logger:   logger,
	}
}

// Day materializes the date on demand and returns its slots. This is the
// read path behind both the public and the owner slot listings.
func (s *Service) Day(ctx context.Context, masterID string, day time.Time) ([]model.Slot, error) {
	if err := s.EnsureDay(ctx, masterID, day); err != nil {
		return nil, err
	}
	return s.slots.ListDay(ctx, s.pool, masterID, day)
}

// EnsureDay generates missing slots for the date and folds the result
// into whatever already exists. Booked and blocked slots survive template
// changes; a reconciliation pass afterwards rebinds bookings.
func (s *Service) EnsureDay(ctx context.Context, masterID string, day time.Time) error {
	working := false
	err := s.pool.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.slots.PurgeCorrupt(ctx, tx, masterID, day); err != nil {
			return err
		}

		tmpl, err := s.schedule.GetTemplate(ctx, tx, masterID, int(day.Weekday()))
		if err != nil {
			return err
		}
		exc, err := s.schedule.GetException(ctx, tx, masterID, day)
		if err != nil {
			return err
		}

		plan := schedule.Resolve(tmpl, exc)
		if !plan.IsWorking {
			return s.slots.PurgeUnbooked(ctx, tx, masterID, day)
		}
		working = true

		existing, err := s.slots.ListDay(ctx, tx, masterID, day)
		if err != nil {
			return err
		}
		merge := planMerge(existing, schedule.Generate(plan))

		for _, r := range merge.Refreshes {
			if err := s.slots.RefreshWindow(ctx, tx, r.SlotID, r.EndMinute, r.DurationMinutes); err != nil {
				return err
			}
		}
		for _, spec := range merge.Inserts {
			_, err := s.slots.Insert(ctx, tx, model.Slot{
				MasterID:        masterID,
				Date:            day,
				StartMinute:     spec.StartMinute,
				EndMinute:       spec.EndMinute,
				DurationMinutes: spec.DurationMinutes,
				Kind:            spec.Kind,
				Available:       spec.Available,
			})
			if err != nil {
				return err
			}
		}
		for _, spec := range merge.Skipped {
			s.logger.Warn("skipping generated slot over existing one",
				"master_id", masterID,
				"day", model.FormatDate(day),
				"start_minute", spec.StartMinute,
				"kind", spec.Kind,
			)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !working {
		return nil
	}
	return s.Reconcile(ctx, masterID, day)
}

// ToggleBreak flips one work slot to blocked or back. Lunch slots and
// slots held by a booking cannot be toggled.
func (s *Service) ToggleBreak(ctx context.Context, masterID, slotID string, makeBreak bool) (model.Slot, error) {
	var updated model.Slot
	err := s.pool.WithTx(ctx, func(tx pgx.Tx) error {
		sl, err := s.slots.GetForUpdate(ctx, tx, slotID)
		if err != nil {
			if storage.IsNotFound(err) {
				return fault.NotFoundf("slot not found")
			}
			return err
		}
		if sl.MasterID != masterID {
			return fault.NotFoundf("slot not found")
		}
		if sl.Kind == model.SlotLunch {
			return fault.Conflictf("lunch slot cannot be toggled")
		}

		if makeBreak {
			if sl.BookingID != "" {
				return fault.Conflictf("slot is held by a booking")
			}
			overlap, err := s.bookings.ActiveOverlapExists(ctx, tx, masterID, sl.Date, sl.StartMinute, sl.EndMinute)
			if err != nil {
				return err
			}
			if overlap {
				return fault.Conflictf("an active booking covers this slot")
			}
			updated, err = s.slots.SetKind(ctx, tx, slotID, model.SlotBlocked, false)
			return err
		}

		updated, err = s.slots.SetKind(ctx, tx, slotID, model.SlotWork, true)
		return err
	})
	if err != nil {
		return model.Slot{}, err
	}
	if err := s.Reconcile(ctx, masterID, updated.Date); err != nil {
		s.logger.Warn("reconcile after break toggle failed", "master_id", masterID, "err", err)
	}
	return updated, nil
}

// AppendSlot adds one work slot right after the last work slot of the
// date, even past the template's end of day.
func (s *Service) AppendSlot(ctx context.Context, masterID string, day time.Time) (model.Slot, error) {
	var created model.Slot
	err := s.pool.WithTx(ctx, func(tx pgx.Tx) error {
		existing, err := s.slots.ListDay(ctx, tx, masterID, day)
		if err != nil {
			return err
		}
		tmpl, err := s.schedule.GetTemplate(ctx, tx, masterID, int(day.Weekday()))
		if err != nil {
			return err
		}
		spec, err := planAppend(existing, tmpl)
		if err != nil {
			return err
		}

		created, err = s.slots.Insert(ctx, tx, model.Slot{
			MasterID:        masterID,
			Date:            day,
			StartMinute:     spec.StartMinute,
			EndMinute:       spec.EndMinute,
			DurationMinutes: spec.DurationMinutes,
			Kind:            model.SlotWork,
			Available:       true,
		})
		if storage.IsConflict(err) {
			return fault.Conflictf("a slot already starts at that time")
		}
		return err
	})
	if err != nil {
		return model.Slot{}, err
	}
	return created, nil
}

// ToggleDayStatus flips whether the date is a working day, recording a
// date exception. Closing a day with active bookings is refused; opening
// a day repairs the weekday template when it has no usable window.
func (s *Service) ToggleDayStatus(ctx context.Context, masterID string, day time.Time, reason string) (model.DateException, error) {
	var exc model.DateException
	target := false
	err := s.pool.WithTx(ctx, func(tx pgx.Tx) error {
		tmpl, err := s.schedule.GetTemplate(ctx, tx, masterID, int(day.Weekday()))
		if err != nil {
			return err
		}
		cur, err := s.schedule.GetException(ctx, tx, masterID, day)
		if err != nil {
			return err
		}
		active, err := s.bookings.ActiveExistsOnDate(ctx, tx, masterID, day)
		if err != nil {
			return err
		}

		var repair bool
		target, repair, err = planDayToggle(tmpl, cur, active)
		if err != nil {
			return err
		}

		exc, err = s.schedule.UpsertException(ctx, tx, model.DateException{
			MasterID: masterID, Date: day, IsWorking: target, Reason: reason,
		})
		if err != nil {
			return err
		}
		if !target {
			return s.slots.PurgeUnbooked(ctx, tx, masterID, day)
		}

		if repair {
			templates, err := s.schedule.ListTemplates(ctx, tx, masterID)
			if err != nil {
				return err
			}
			fb := schedule.Fallback(templates)
			return s.schedule.UpsertTemplate(ctx, tx, model.WeeklyTemplate{
				MasterID:    masterID,
				Weekday:     int(day.Weekday()),
				IsWorking:   true,
				StartMinute: fb.StartMinute,
				EndMinute:   fb.EndMinute,
				LunchStart:  fb.LunchStart,
				LunchEnd:    fb.LunchEnd,
				SlotMinutes: fb.SlotMinutes,
			})
		}
		return nil
	})
	if err != nil {
		return model.DateException{}, err
	}
	if target {
		if err := s.EnsureDay(ctx, masterID, day); err != nil {
			return model.DateException{}, err
		}
	}
	return exc, nil
}
