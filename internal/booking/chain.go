package booking

import (
	"time"

	"slotbook/internal/fault"
	"slotbook/internal/model"
)

// RequiredUnits is the number of slots a service occupies, rounding a
// partial final unit up to a whole slot.
func RequiredUnits(serviceMinutes, slotMinutes int) int {
	if serviceMinutes <= 0 || slotMinutes <= 0 {
		return 0
	}
	return (serviceMinutes + slotMinutes - 1) / slotMinutes
}

// ChainStarts lists the start minutes of the slot chain beginning at
// startMinute. It reports false when the chain would run past midnight.
func ChainStarts(startMinute, slotMinutes, required int) ([]int, bool) {
	if required <= 0 || slotMinutes <= 0 {
		return nil, false
	}
	if startMinute+required*slotMinutes > model.MinutesPerDay {
		return nil, false
	}
	starts := make([]int, required)
	for i := range starts {
		starts[i] = startMinute + i*slotMinutes
	}
	return starts, true
}

// startClock anchors a minute-of-day on a date in the calendar location.
func startClock(day time.Time, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, loc)
}

// transition checks a status change. It returns apply=false for a repeat
// cancellation, which is treated as already done rather than an error.
// The future-start requirement for confirmation is checked separately.
func transition(from, to string) (bool, error) {
	switch to {
	case model.StatusConfirmed:
		switch from {
		case model.StatusPending:
			return true, nil
		case model.StatusConfirmed:
			return false, fault.Conflictf("booking is already confirmed")
		default:
			return false, fault.Conflictf("cannot confirm a %s booking", from)
		}
	case model.StatusCancelled:
		switch from {
		case model.StatusPending, model.StatusConfirmed:
			return true, nil
		case model.StatusCancelled:
			return false, nil
		default:
			return false, fault.Conflictf("cannot cancel a %s booking", from)
		}
	case model.StatusCompleted:
		switch from {
		case model.StatusPending, model.StatusConfirmed:
			return true, nil
		default:
			return false, fault.Conflictf("cannot complete a %s booking", from)
		}
	default:
		return false, fault.InvalidInputf("unknown status %q", to)
	}
}
