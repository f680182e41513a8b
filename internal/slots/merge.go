package slots

import (
	"slotbook/internal/model"
	"slotbook/internal/schedule"
)

// refresh updates the window of an existing slot whose kind matched the
// generated spec at the same start minute.
type refresh struct {
	SlotID          string
	EndMinute       int
	DurationMinutes int
}

// mergePlan is the set of writes a generator pass wants to apply to a
// day. Booked and blocked slots are never touched; specs that would
// overlap an unrelated existing slot are reported, not applied.
type mergePlan struct {
	Inserts   []schedule.SlotSpec
	Refreshes []refresh
	Skipped   []schedule.SlotSpec
}

// planMerge folds generated specs into the slots already on the date.
// Matching is by exact start minute:
//
//   - booked or blocked rows are preserved untouched
//   - same-kind rows get their end and duration refreshed
//   - kind mismatches are left alone and reported
//   - unmatched specs insert unless they overlap an existing row
func planMerge(existing []model.Slot, specs []schedule.SlotSpec) mergePlan {
	byStart := make(map[int]model.Slot, len(existing))
	for _, s := range existing {
		byStart[s.StartMinute] = s
	}

	var plan mergePlan
	for _, spec := range specs {
		cur, ok := byStart[spec.StartMinute]
		if !ok {
			if overlapsAny(existing, spec.StartMinute, spec.EndMinute) {
				plan.Skipped = append(plan.Skipped, spec)
				continue
			}
			plan.Inserts = append(plan.Inserts, spec)
			continue
		}

		if cur.BookingID != "" || cur.Kind == model.SlotBlocked {
			continue
		}
		if cur.Kind != spec.Kind {
			plan.Skipped = append(plan.Skipped, spec)
			continue
		}
		if cur.EndMinute != spec.EndMinute || cur.DurationMinutes != spec.DurationMinutes {
			plan.Refreshes = append(plan.Refreshes, refresh{
				SlotID:          cur.ID,
				EndMinute:       spec.EndMinute,
				DurationMinutes: spec.DurationMinutes,
			})
		}
	}
	return plan
}

func overlapsAny(existing []model.Slot, startMinute, endMinute int) bool {
	for _, s := range existing {
		if schedule.Overlaps(startMinute, endMinute, s.StartMinute, s.EndMinute) {
			return true
		}
	}
	return false
}
