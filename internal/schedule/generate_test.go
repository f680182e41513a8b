package schedule

import (
	"testing"

	"slotbook/internal/model"
)

func TestGenerateFullDayWithLunch(t *testing.T) {
	p := DayPlan{
		IsWorking:   true,
		StartMinute: 9 * 60,
		EndMinute:   19 * 60,
		LunchStart:  13 * 60,
		LunchEnd:    14 * 60,
		SlotMinutes: 60,
	}

	specs := Generate(p)

	var work, lunch int
	for _, s := range specs {
		switch s.Kind {
		case model.SlotWork:
			work++
			if s.EndMinute-s.StartMinute != 60 || s.DurationMinutes != 60 {
				t.Fatalf("work slot at %d has wrong span: end=%d dur=%d", s.StartMinute, s.EndMinute, s.DurationMinutes)
			}
			if !s.Available {
				t.Fatalf("work slot at %d should be available", s.StartMinute)
			}
			if Overlaps(s.StartMinute, s.EndMinute, p.LunchStart, p.LunchEnd) {
				t.Fatalf("work slot at %d overlaps lunch", s.StartMinute)
			}
		case model.SlotLunch:
			lunch++
			if s.StartMinute != 13*60 || s.EndMinute != 14*60 {
				t.Fatalf("lunch slot at %d-%d, want 780-840", s.StartMinute, s.EndMinute)
			}
			if s.Available {
				t.Fatal("lunch slot must not be available")
			}
		default:
			t.Fatalf("unexpected kind %q", s.Kind)
		}
	}
	if work != 9 {
		t.Fatalf("got %d work slots, want 9", work)
	}
	if lunch != 1 {
		t.Fatalf("got %d lunch slots, want 1", lunch)
	}
}

func TestGenerateDropsPartialTrailingSlot(t *testing.T) {
	p := DayPlan{
		IsWorking:   true,
		StartMinute: 9 * 60,
		EndMinute:   10*60 + 30,
		SlotMinutes: 60,
	}

	specs := Generate(p)
	if len(specs) != 1 {
		t.Fatalf("got %d slots, want 1", len(specs))
	}
	if specs[0].StartMinute != 9*60 || specs[0].EndMinute != 10*60 {
		t.Fatalf("got slot %d-%d, want 540-600", specs[0].StartMinute, specs[0].EndMinute)
	}
}

func TestGenerateNonWorkingDay(t *testing.T) {
	if specs := Generate(DayPlan{IsWorking: false, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60}); specs != nil {
		t.Fatalf("non-working day generated %d slots", len(specs))
	}
}

func TestGenerateInvalidWindow(t *testing.T) {
	cases := []DayPlan{
		{IsWorking: true, StartMinute: 600, EndMinute: 600, SlotMinutes: 30},
		{IsWorking: true, StartMinute: 600, EndMinute: 540, SlotMinutes: 30},
		{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 0},
		{IsWorking: true, StartMinute: 540, EndMinute: model.MinutesPerDay + 60, SlotMinutes: 60},
	}
	for i, p := range cases {
		if specs := Generate(p); specs != nil {
			t.Fatalf("case %d: invalid window generated %d slots", i, len(specs))
		}
	}
}

func TestGenerateWindowEndingAtMidnight(t *testing.T) {
	p := DayPlan{IsWorking: true, StartMinute: 22 * 60, EndMinute: model.MinutesPerDay, SlotMinutes: 60}
	specs := Generate(p)
	if len(specs) != 2 {
		t.Fatalf("got %d slots, want 2", len(specs))
	}
	if specs[1].EndMinute != model.MinutesPerDay {
		t.Fatalf("last slot ends at %d, want %d", specs[1].EndMinute, model.MinutesPerDay)
	}
}

func TestResolveExceptionWins(t *testing.T) {
	tmpl := &model.WeeklyTemplate{IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 30}

	p := Resolve(tmpl, &model.DateException{IsWorking: false})
	if p.IsWorking {
		t.Fatal("exception should close the day")
	}
	if p.StartMinute != 540 || p.EndMinute != 1080 {
		t.Fatalf("window should survive the exception, got %d-%d", p.StartMinute, p.EndMinute)
	}

	tmpl.IsWorking = false
	p = Resolve(tmpl, &model.DateException{IsWorking: true})
	if !p.IsWorking {
		t.Fatal("exception should open the day")
	}
}

func TestResolveNilTemplate(t *testing.T) {
	if p := Resolve(nil, nil); p.IsWorking {
		t.Fatal("no template means no work")
	}
	p := Resolve(nil, &model.DateException{IsWorking: true})
	if !p.IsWorking {
		t.Fatal("exception opens the day even without a template")
	}
	if p.HasWindow() {
		t.Fatal("no template means no window")
	}
}

func TestFallbackPrefersFirstWorkingWeekday(t *testing.T) {
	templates := []model.WeeklyTemplate{
		{Weekday: 0, IsWorking: false},
		{Weekday: 1, IsWorking: false},
		{Weekday: 2, IsWorking: true, StartMinute: 600, EndMinute: 1200, SlotMinutes: 30, LunchStart: 780, LunchEnd: 840},
		{Weekday: 3, IsWorking: true, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60},
	}

	p := Fallback(templates)
	if p.StartMinute != 600 || p.EndMinute != 1200 || p.SlotMinutes != 30 {
		t.Fatalf("got %d-%d/%d, want Tuesday's window", p.StartMinute, p.EndMinute, p.SlotMinutes)
	}
	if !p.HasLunch() {
		t.Fatal("lunch should be carried over")
	}
}

func TestFallbackDefaultsWhenNothingUsable(t *testing.T) {
	templates := []model.WeeklyTemplate{
		{Weekday: 1, IsWorking: true, StartMinute: 600, EndMinute: 600, SlotMinutes: 30},
		{Weekday: 2, IsWorking: false, StartMinute: 540, EndMinute: 1080, SlotMinutes: 60},
	}

	p := Fallback(templates)
	if p.StartMinute != DefaultStartMinute || p.EndMinute != DefaultEndMinute || p.SlotMinutes != DefaultSlotMinutes {
		t.Fatalf("got %d-%d/%d, want package defaults", p.StartMinute, p.EndMinute, p.SlotMinutes)
	}
	if !p.IsWorking {
		t.Fatal("fallback plan must be working")
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{540, 600, 600, 660, false},
		{540, 600, 570, 630, true},
		{540, 600, 500, 541, true},
		{540, 600, 500, 540, false},
		{540, 600, 540, 600, true},
	}
	for _, c := range cases {
		if got := Overlaps(c.aStart, c.aEnd, c.bStart, c.bEnd); got != c.want {
			t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v", c.aStart, c.aEnd, c.bStart, c.bEnd, got, c.want)
		}
	}
}
