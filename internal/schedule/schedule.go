// Package schedule resolves what a master's day looks like and expands
// it into slot specifications. Everything here is pure; persistence and
// merging live in the slots package.
package schedule

import "slotbook/internal/model"

// Defaults applied when a master has no usable template to fall back on.
const (
	DefaultStartMinute = 9 * 60
	DefaultEndMinute   = 18 * 60
	DefaultSlotMinutes = 60
)

// DayPlan is the effective working plan for one concrete date after the
// weekly template and any date exception have been combined.
type DayPlan struct {
	IsWorking   bool
	StartMinute int
	EndMinute   int
	LunchStart  int
	LunchEnd    int
	SlotMinutes int
}

// HasLunch reports whether the plan carries a usable lunch window.
func (p DayPlan) HasLunch() bool {
	return p.LunchEnd > p.LunchStart
}

// HasWindow reports whether the plan has a generatable working window.
func (p DayPlan) HasWindow() bool {
	return p.StartMinute >= 0 &&
		p.EndMinute > p.StartMinute &&
		p.EndMinute <= model.MinutesPerDay &&
		p.SlotMinutes > 0
}

// Resolve combines the weekday template with a date exception. The
// exception wins on whether the day is working at all; the window always
// comes from the template. A nil template yields a non-working plan
// unless an exception forces the day open (the window then stays empty
// and generation produces nothing until the template is repaired).
func Resolve(tmpl *model.WeeklyTemplate, exc *model.DateException) DayPlan {
	var p DayPlan
	if tmpl != nil {
		p = DayPlan{
			IsWorking:   tmpl.IsWorking,
			StartMinute: tmpl.StartMinute,
			EndMinute:   tmpl.EndMinute,
			LunchStart:  tmpl.LunchStart,
			LunchEnd:    tmpl.LunchEnd,
			SlotMinutes: tmpl.SlotMinutes,
		}
	}
	if exc != nil {
		p.IsWorking = exc.IsWorking
	}
	return p
}

// Fallback builds a working plan for a day whose own template is missing
// or unusable. It copies the window of the first usable working weekday,
// scanning Monday through Sunday, and falls back to the package defaults
// when the master has no usable weekday at all.
func Fallback(templates []model.WeeklyTemplate) DayPlan {
	byWeekday := make(map[int]model.WeeklyTemplate, len(templates))
	for _, t := range templates {
		byWeekday[t.Weekday] = t
	}
	for _, wd := range []int{1, 2, 3, 4, 5, 6, 0} {
		t, ok := byWeekday[wd]
		if !ok || !t.IsWorking {
			continue
		}
		p := DayPlan{
			IsWorking:   true,
			StartMinute: t.StartMinute,
			EndMinute:   t.EndMinute,
			LunchStart:  t.LunchStart,
			LunchEnd:    t.LunchEnd,
			SlotMinutes: t.SlotMinutes,
		}
		if p.HasWindow() {
			return p
		}
	}
	return DayPlan{
		IsWorking:   true,
		StartMinute: DefaultStartMinute,
		EndMinute:   DefaultEndMinute,
		SlotMinutes: DefaultSlotMinutes,
	}
}

// Overlaps reports whether two half-open minute ranges intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
