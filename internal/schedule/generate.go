package schedule

import "slotbook/internal/model"

// SlotSpec is one slot the generator wants to exist on a date. It has no
// identity; the merge step decides whether to insert, refresh or skip.
type SlotSpec struct {
	StartMinute     int
	EndMinute       int
	DurationMinutes int
	Kind            string
	Available       bool
}

// Generate expands a day plan into slot specs. Work slots step through
// the window at the plan's duration; a final partial step that would run
// past the window is dropped, as is any step overlapping lunch. The
// lunch window itself becomes a single unavailable lunch slot. A
// non-working or windowless plan generates nothing.
func Generate(p DayPlan) []SlotSpec {
	if !p.IsWorking || !p.HasWindow() {
		return nil
	}

	var specs []SlotSpec
	for start := p.StartMinute; start+p.SlotMinutes <= p.EndMinute; start += p.SlotMinutes {
		end := start + p.SlotMinutes
		if p.HasLunch() && Overlaps(start, end, p.LunchStart, p.LunchEnd) {
			continue
		}
		specs = append(specs, SlotSpec{
			StartMinute:     start,
			EndMinute:       end,
			DurationMinutes: p.SlotMinutes,
			Kind:            model.SlotWork,
			Available:       true,
		})
	}

	if p.HasLunch() {
		specs = append(specs, SlotSpec{
			StartMinute:     p.LunchStart,
			EndMinute:       p.LunchEnd,
			DurationMinutes: p.LunchEnd - p.LunchStart,
			Kind:            model.SlotLunch,
			Available:       false,
		})
	}
	return specs
}
