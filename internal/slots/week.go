package slots

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"slotbook/internal/fault"
	"slotbook/internal/model"
)

// WeekTemplates returns the master's weekly schedule, seeding the
// standard week first if the master has none yet.
func (s *Service) WeekTemplates(ctx context.Context, masterID string) ([]model.WeeklyTemplate, error) {
	templates, err := s.schedule.ListTemplates(ctx, s.pool, masterID)
	if err != nil {
		return nil, err
	}
	if len(templates) > 0 {
		return templates, nil
	}
	if err := s.schedule.SeedDefaultTemplates(ctx, masterID); err != nil {
		return nil, err
	}
	return s.schedule.ListTemplates(ctx, s.pool, masterID)
}

// SaveWeekTemplates validates and upserts the given weekday templates.
// Days not listed keep their current rows.
func (s *Service) SaveWeekTemplates(ctx context.Context, masterID string, templates []model.WeeklyTemplate) ([]model.WeeklyTemplate, error) {
	seen := map[int]bool{}
	for _, t := range templates {
		if t.Weekday < 0 || t.Weekday > 6 {
			return nil, fault.InvalidInputf("weekday %d out of range", t.Weekday)
		}
		if seen[t.Weekday] {
			return nil, fault.InvalidInputf("weekday %d listed twice", t.Weekday)
		}
		seen[t.Weekday] = true
		if err := validateTemplate(t); err != nil {
			return nil, err
		}
	}

	err := s.pool.WithTx(ctx, func(tx pgx.Tx) error {
		for _, t := range templates {
			t.MasterID = masterID
			if err := s.schedule.UpsertTemplate(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.schedule.ListTemplates(ctx, s.pool, masterID)
}

func validateTemplate(t model.WeeklyTemplate) error {
	if !t.IsWorking {
		return nil
	}
	if t.StartMinute < 0 || t.EndMinute > model.MinutesPerDay || t.EndMinute <= t.StartMinute {
		return fault.InvalidInputf("weekday %d has an invalid working window", t.Weekday)
	}
	if t.SlotMinutes <= 0 || t.SlotMinutes > t.EndMinute-t.StartMinute {
		return fault.InvalidInputf("weekday %d has an invalid slot duration", t.Weekday)
	}
	if t.LunchStart != 0 || t.LunchEnd != 0 {
		if t.LunchEnd <= t.LunchStart || t.LunchStart < t.StartMinute || t.LunchEnd > t.EndMinute {
			return fault.InvalidInputf("weekday %d has a lunch break outside the working window", t.Weekday)
		}
	}
	return nil
}

// Exceptions lists the master's date exceptions in the given range.
func (s *Service) Exceptions(ctx context.Context, masterID string, from, to time.Time) ([]model.DateException, error) {
	return s.schedule.ListExceptions(ctx, masterID, from, to)
}
