package model

import (
	"testing"
	"time"
)

func TestFormatMinute(t *testing.T) {
	cases := []struct {
		minute int
		want   string
	}{
		{0, "00:00"},
		{540, "09:00"},
		{785, "13:05"},
		{MinutesPerDay, "24:00"},
	}
	for _, c := range cases {
		if got := FormatMinute(c.minute); got != c.want {
			t.Fatalf("FormatMinute(%d) = %q, want %q", c.minute, got, c.want)
		}
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	d, err := ParseDate("2026-09-14", loc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Location() != loc {
		t.Fatalf("date lost its location: %v", d.Location())
	}
	if got := FormatDate(d); got != "2026-09-14" {
		t.Fatalf("round trip gave %q", got)
	}
	if d.Weekday() != time.Monday {
		t.Fatalf("2026-09-14 should be Monday, got %v", d.Weekday())
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"14.09.2026", "2026-13-01", "tomorrow", ""} {
		if _, err := ParseDate(raw, time.UTC); err == nil {
			t.Fatalf("ParseDate(%q) should fail", raw)
		}
	}
}

func TestBookingIsActive(t *testing.T) {
	cases := map[string]bool{
		StatusPending:   true,
		StatusConfirmed: true,
		StatusCancelled: false,
		StatusCompleted: false,
	}
	for status, want := range cases {
		b := Booking{Status: status}
		if b.IsActive() != want {
			t.Fatalf("IsActive(%s) = %v, want %v", status, b.IsActive(), want)
		}
	}
}
