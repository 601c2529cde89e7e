package availability

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSlot       = errors.New("slot start must be before end")
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrUnavailableSlots  = errors.New("unavailable override cannot carry slots")
	ErrOverrideNotFound  = errors.New("override not found")
	ErrOverrideZeroDates = errors.New("override needs at least one date")
)

// Slot is one recurring weekly availability window, keyed by weekday rather
// than an absolute date. Times are minutes from midnight, date-independent.
// Multiple slots may cover the same weekday (split shifts) and may overlap;
// overlap is a display concern, never rejected or merged here.
type Slot struct {
	Weekdays map[time.Weekday]bool
	StartMin int
	EndMin   int
}

// NewSlot builds a slot over the given weekdays.
func NewSlot(startMin, endMin int, days ...time.Weekday) (Slot, error) {
	if startMin >= endMin {
		return Slot{}, ErrInvalidSlot
	}
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return Slot{Weekdays: set, StartMin: startMin, EndMin: endMin}, nil
}

// AppliesTo reports whether the slot covers the weekday.
func (s Slot) AppliesTo(day time.Weekday) bool {
	return s.Weekdays[day]
}

// Window is a time-of-day range inside a date override.
type Window struct {
	StartMin int
	EndMin   int
}

// DateOverride replaces weekly availability on specific calendar dates.
// Invariant: an unavailable override carries no windows.
type DateOverride struct {
	ID          string
	Dates       []time.Time // normalized to midnight
	Unavailable bool
	Windows     []Window
}

// NewDateOverride constructs an override, enforcing the
// unavailable-implies-empty invariant.
func NewDateOverride(dates []time.Time, unavailable bool, windows []Window) (DateOverride, error) {
	if len(dates) == 0 {
		return DateOverride{}, ErrOverrideZeroDates
	}
	if unavailable && len(windows) > 0 {
		return DateOverride{}, ErrUnavailableSlots
	}
	for _, w := range windows {
		if w.StartMin >= w.EndMin {
			return DateOverride{}, ErrInvalidSlot
		}
	}

	norm := make([]time.Time, len(dates))
	for i, d := range dates {
		norm[i] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	}
	return DateOverride{
		ID:          uuid.NewString(),
		Dates:       norm,
		Unavailable: unavailable,
		Windows:     windows,
	}, nil
}

// Covers reports whether the override applies to the given date.
func (o DateOverride) Covers(date time.Time) bool {
	y, m, d := date.Date()
	for _, od := range o.Dates {
		oy, om, odd := od.Date()
		if y == oy && m == om && d == odd {
			return true
		}
	}
	return false
}

// Schedule aggregates a user's ordered weekly slots under a name and zone.
type Schedule struct {
	ID       string
	Name     string
	Default  bool
	TimeZone string
	Slots    []Slot
}

// NewSchedule builds a schedule with a fresh id.
func NewSchedule(name, timeZone string, slots []Slot) Schedule {
	return Schedule{
		ID:       uuid.NewString(),
		Name:     name,
		TimeZone: timeZone,
		Slots:    slots,
	}
}
