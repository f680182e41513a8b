// Package model holds the shared domain types for the scheduling engine.
// All times within a day are minutes since midnight in the calendar's
// configured location; dates carry no time component.
package model

import (
	"fmt"
	"time"
)

// MinutesPerDay bounds every minute-of-day value. A slot may end exactly
// at minute 1440 (midnight of the next day) but never start there.
const MinutesPerDay = 24 * 60

// Slot kinds.
const (
	SlotWork    = "work"
	SlotLunch   = "lunch"
	SlotBlocked = "blocked"
)

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Principal roles.
const (
	RoleMaster = "master"
	RoleClient = "client"
)

type Master struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	ID              string    `json:"id"`
	MasterID        string    `json:"master_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// WeeklyTemplate is the recurring plan for one weekday of one master.
// Weekday follows time.Weekday numbering (Sunday = 0). Lunch minutes of
// zero on both ends mean no lunch break.
type WeeklyTemplate struct {
	ID          string `json:"id"`
	MasterID    string `json:"master_id"`
	Weekday     int    `json:"weekday"`
	IsWorking   bool   `json:"is_working"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	LunchStart  int    `json:"lunch_start_minute"`
	LunchEnd    int    `json:"lunch_end_minute"`
	SlotMinutes int    `json:"slot_minutes"`
}

// HasLunch reports whether the template carries a usable lunch window.
func (t WeeklyTemplate) HasLunch() bool {
	return t.LunchEnd > t.LunchStart
}

// DateException overrides the weekly template for a single date.
type DateException struct {
	ID        string    `json:"id"`
	MasterID  string    `json:"master_id"`
	Date      time.Time `json:"-"`
	IsWorking bool      `json:"is_working"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Slot is one bookable (or blocked) unit of a master's day. BookingID is
// empty while the slot is unbound.
type Slot struct {
	ID              string    `json:"id"`
	MasterID        string    `json:"master_id"`
	Date            time.Time `json:"-"`
	StartMinute     int       `json:"start_minute"`
	EndMinute       int       `json:"end_minute"`
	DurationMinutes int       `json:"duration_minutes"`
	Kind            string    `json:"kind"`
	Available       bool      `json:"available"`
	BookingID       string    `json:"booking_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Booking struct {
	ID          string     `json:"id"`
	MasterID    string     `json:"master_id"`
	ServiceID   string     `json:"service_id"`
	Date        time.Time  `json:"-"`
	StartMinute int        `json:"start_minute"`
	EndMinute   int        `json:"end_minute"`
	Status      string     `json:"status"`
	ClientName  string     `json:"client_name"`
	ClientEmail string     `json:"client_email"`
	ClientPhone string     `json:"client_phone,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// IsActive reports whether the booking still holds its slots.
func (b Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// FormatDate renders a date in the wire format.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// FormatMinute renders a minute-of-day as HH:MM. Minute 1440 renders as
// 24:00 so a day-final slot end stays readable.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
