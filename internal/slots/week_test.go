package slots

import (
	"testing"

	"slotbook/internal/fault"
	"slotbook/internal/model"
)

func TestValidateTemplateAcceptsWorkingDay(t *testing.T) {
	tmpl := model.WeeklyTemplate{
		Weekday: 1, IsWorking: true,
		StartMinute: 540, EndMinute: 1080, SlotMinutes: 60,
		LunchStart: 780, LunchEnd: 840,
	}
	if err := validateTemplate(tmpl); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
}

func TestValidateTemplateSkipsNonWorkingDay(t *testing.T) {
	// A closed day carries no window, so the window fields are not checked.
	tmpl := model.WeeklyTemplate{Weekday: 0, IsWorking: false, EndMinute: -1}
	if err := validateTemplate(tmpl); err != nil {
		t.Fatalf("non-working template rejected: %v", err)
	}
}

func TestValidateTemplateRejectsBadWindows(t *testing.T) {
	cases := []struct {
		name string
		tmpl model.WeeklyTemplate
	}{
		{"end before start", model.WeeklyTemplate{IsWorking: true, StartMinute: 600, EndMinute: 540, SlotMinutes: 30}},
		{"end past midnight", model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1500, SlotMinutes: 30}},
		{"zero slot duration", model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 0}},
		{"slot longer than window", model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 600, SlotMinutes: 90}},
		{"lunch outside window", model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60, LunchStart: 480, LunchEnd: 540}},
		{"inverted lunch", model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60, LunchStart: 840, LunchEnd: 780}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTemplate(tc.tmpl)
			if !fault.IsKind(err, fault.InvalidInput) {
				t.Fatalf("want invalid_input, got %v", err)
			}
		})
	}
}
