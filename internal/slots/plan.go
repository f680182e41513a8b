package slots

import (
	"slotbook/internal/fault"
	"slotbook/internal/model"
	"slotbook/internal/schedule"
)

// planAppend computes the work slot to add after the last work slot of
// the date. Duration preference: weekday template, then the last work
// slot's own duration, then the package default.
func planAppend(existing []model.Slot, tmpl *model.WeeklyTemplate) (schedule.SlotSpec, error) {
	if len(existing) == 0 {
		return schedule.SlotSpec{}, fault.Conflictf("no slots exist for this date yet")
	}

	var last *model.Slot
	for i := len(existing) - 1; i >= 0; i-- {
		if existing[i].Kind == model.SlotWork {
			last = &existing[i]
			break
		}
	}
	if last == nil {
		return schedule.SlotSpec{}, fault.Conflictf("no work slots to extend")
	}

	duration := schedule.DefaultSlotMinutes
	if tmpl != nil && tmpl.SlotMinutes > 0 {
		duration = tmpl.SlotMinutes
	} else if last.DurationMinutes > 0 {
		duration = last.DurationMinutes
	}

	start := last.EndMinute
	end := start + duration
	if end > model.MinutesPerDay {
		return schedule.SlotSpec{}, fault.InvalidInputf("slot would cross midnight")
	}
	if tmpl != nil && tmpl.HasLunch() && schedule.Overlaps(start, end, tmpl.LunchStart, tmpl.LunchEnd) {
		return schedule.SlotSpec{}, fault.Conflictf("slot overlaps the lunch break")
	}
	if overlapsAny(existing, start, end) {
		return schedule.SlotSpec{}, fault.Conflictf("slot overlaps an existing slot")
	}

	return schedule.SlotSpec{
		StartMinute:     start,
		EndMinute:       end,
		DurationMinutes: duration,
		Kind:            model.SlotWork,
		Available:       true,
	}, nil
}

// planDayToggle decides the flipped working state for a date. Closing a
// day that still carries active bookings is refused. When opening, the
// second return reports whether the weekday template must be repaired
// before generation can produce anything.
func planDayToggle(tmpl *model.WeeklyTemplate, exc *model.DateException, hasActiveBookings bool) (target, repair bool, err error) {
	target = !schedule.Resolve(tmpl, exc).IsWorking
	if !target {
		if hasActiveBookings {
			return false, false, fault.Conflictf("date has active bookings")
		}
		return false, false, nil
	}
	repair = tmpl == nil || !tmpl.IsWorking || !schedule.Resolve(tmpl, nil).HasWindow()
	return true, repair, nil
}
