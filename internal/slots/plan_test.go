package slots

import (
	"testing"

	"slotbook/internal/fault"
	"slotbook/internal/model"
)

func workDay(dur int, starts ...int) []model.Slot {
	slots := make([]model.Slot, 0, len(starts))
	for _, start := range starts {
		slots = append(slots, model.Slot{
			StartMinute:     start,
			EndMinute:       start + dur,
			DurationMinutes: dur,
			Kind:            model.SlotWork,
			Available:       true,
		})
	}
	return slots
}

func TestPlanAppendAfterLastWorkSlot(t *testing.T) {
	// Day generated 09:00-18:00 hourly; last work slot ends at 18:00.
	existing := workDay(60, 540, 600, 660, 720, 840, 900, 960, 1020)
	tmpl := &model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60}

	spec, err := planAppend(existing, tmpl)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if spec.StartMinute != 18*60 || spec.EndMinute != 19*60 {
		t.Fatalf("got %d-%d, want 1080-1140", spec.StartMinute, spec.EndMinute)
	}
	if spec.Kind != model.SlotWork || !spec.Available {
		t.Fatalf("appended slot should be available work, got %+v", spec)
	}
}

func TestPlanAppendCrossingMidnight(t *testing.T) {
	// Last work slot ends 23:30; one more hour would cross midnight.
	existing := workDay(60, 22*60+30)
	tmpl := &model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60}

	_, err := planAppend(existing, tmpl)
	if !fault.IsKind(err, fault.InvalidInput) {
		t.Fatalf("want invalid_input, got %v", err)
	}
}

func TestPlanAppendEndingExactlyAtMidnight(t *testing.T) {
	existing := workDay(60, 22*60)
	tmpl := &model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60}

	spec, err := planAppend(existing, tmpl)
	if err != nil {
		t.Fatalf("append ending at minute 1440 should work: %v", err)
	}
	if spec.EndMinute != model.MinutesPerDay {
		t.Fatalf("got end %d, want %d", spec.EndMinute, model.MinutesPerDay)
	}
}

func TestPlanAppendNoSlots(t *testing.T) {
	if _, err := planAppend(nil, nil); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want conflict on empty day, got %v", err)
	}
}

func TestPlanAppendNoWorkSlots(t *testing.T) {
	existing := []model.Slot{
		{StartMinute: 780, EndMinute: 840, DurationMinutes: 60, Kind: model.SlotLunch},
	}
	if _, err := planAppend(existing, nil); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want conflict without work slots, got %v", err)
	}
}

func TestPlanAppendDurationFallsBackToLastSlot(t *testing.T) {
	existing := workDay(45, 540)

	spec, err := planAppend(existing, nil)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if spec.StartMinute != 585 || spec.DurationMinutes != 45 {
		t.Fatalf("got start=%d dur=%d, want 585/45", spec.StartMinute, spec.DurationMinutes)
	}
}

func TestPlanAppendLunchOverlap(t *testing.T) {
	// Last work slot ends right where lunch begins.
	existing := workDay(60, 12 * 60)
	tmpl := &model.WeeklyTemplate{
		IsWorking: true, StartMinute: 540, EndMinute: 1080,
		LunchStart: 13 * 60, LunchEnd: 14 * 60, SlotMinutes: 60,
	}

	if _, err := planAppend(existing, tmpl); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want conflict over lunch, got %v", err)
	}
}

func TestPlanAppendOverlapWithExisting(t *testing.T) {
	existing := []model.Slot{
		{StartMinute: 540, EndMinute: 600, DurationMinutes: 60, Kind: model.SlotWork, Available: true},
		{StartMinute: 600, EndMinute: 660, DurationMinutes: 60, Kind: model.SlotBlocked},
	}
	// Last work slot ends at 600, but a blocked slot already sits there.
	if _, err := planAppend(existing, nil); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want conflict over existing slot, got %v", err)
	}
}

func TestPlanDayToggleCloseWithActiveBookings(t *testing.T) {
	tmpl := &model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60}

	_, _, err := planDayToggle(tmpl, nil, true)
	if !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("closing over active bookings must conflict, got %v", err)
	}
}

func TestPlanDayToggleClose(t *testing.T) {
	tmpl := &model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60}

	target, repair, err := planDayToggle(tmpl, nil, false)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if target || repair {
		t.Fatalf("got target=%v repair=%v, want false/false", target, repair)
	}
}

func TestPlanDayToggleReopenKeepsUsableTemplate(t *testing.T) {
	tmpl := &model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60}
	exc := &model.DateException{IsWorking: false}

	target, repair, err := planDayToggle(tmpl, exc, false)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !target {
		t.Fatal("reopening should target working")
	}
	if repair {
		t.Fatal("usable template should not be repaired")
	}
}

func TestPlanDayToggleOpenRepairsTemplate(t *testing.T) {
	cases := []*model.WeeklyTemplate{
		nil,
		{IsWorking: false, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60},
		{IsWorking: true, StartMinute: 600, EndMinute: 600, SlotMinutes: 60},
		{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 0},
	}
	for i, tmpl := range cases {
		exc := &model.DateException{IsWorking: false}
		if tmpl == nil || !tmpl.IsWorking {
			exc = nil
		}
		target, repair, err := planDayToggle(tmpl, exc, false)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if !target || !repair {
			t.Fatalf("case %d: got target=%v repair=%v, want true/true", i, target, repair)
		}
	}
}
