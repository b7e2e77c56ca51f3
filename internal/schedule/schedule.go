// Package schedule defines the venue's fixed slot grid and the interval
// arithmetic used to decide which slots a reservation occupies.  All
// functions are pure; times are naive local wall-clock values and no
// timezone normalization is performed anywhere.
package schedule

import (
	"fmt"
	"time"

	"table-reservation-service/internal/model"
)

// Service window and grid constants.  The grid runs from 18:00 to 22:00
// in half-hour steps, inclusive of the 22:00 closing slot: nine slots in
// total.  There is no 22:30 slot.
const (
	OpenHour     = 18
	CloseHour    = 22
	SlotDuration = 30 * time.Minute

	// SlotLabelFormat renders a slot as "HH:MM".
	SlotLabelFormat = "15:04"
	// DateFormat renders a service date as "YYYY-MM-DD".
	DateFormat = "2006-01-02"
	// DateTimeFormat is the naive wall-clock wire format for a
	// reservation start.
	DateTimeFormat = "2006-01-02 15:04"
)

// Slots returns the slot labels of the service window in grid order:
// 18:00, 18:30, ..., 22:00.
func Slots() []string {
	labels := make([]string, 0, (CloseHour-OpenHour)*2+1)
	for h := OpenHour; h <= CloseHour; h++ {
		labels = append(labels, fmt.Sprintf("%02d:00", h))
		if h < CloseHour {
			labels = append(labels, fmt.Sprintf("%02d:30", h))
		}
	}
	return labels
}

// SlotTime combines a service date with a slot label into a concrete
// wall-clock time on that date.
func SlotTime(date time.Time, label string) (time.Time, error) {
	tod, err := time.Parse(SlotLabelFormat, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot label %q: %w", label, err)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, date.Location()), nil
}

// SlotLabel returns the "HH:MM" label for the given time.
func SlotLabel(t time.Time) string { return t.Format(SlotLabelFormat) }

// IsAligned reports whether t sits exactly on the half-hour grid
// (minute :00 or :30, zero seconds).
func IsAligned(t time.Time) bool {
	return (t.Minute() == 0 || t.Minute() == 30) && t.Second() == 0 && t.Nanosecond() == 0
}

// InServiceWindow reports whether t names one of the nine bookable
// slots.  A 22:30 start is rejected even though it is half-hour aligned.
func InServiceWindow(t time.Time) bool {
	if !IsAligned(t) {
		return false
	}
	if t.Hour() < OpenHour || t.Hour() > CloseHour {
		return false
	}
	if t.Hour() == CloseHour && t.Minute() != 0 {
		return false
	}
	return true
}

// Overlaps reports whether a reservation starting at reservationStart
// intersects the half-hour slot starting at slotStart.  Both intervals
// are half-open: [reservationStart, reservationStart+2h) and
// [slotStart, slotStart+30m).  A reservation starting exactly at a
// slot's end does not overlap that slot; one starting within a slot
// always does.
func Overlaps(reservationStart, slotStart time.Time) bool {
	slotEnd := slotStart.Add(SlotDuration)
	reservationEnd := reservationStart.Add(model.Span)
	return reservationStart.Before(slotEnd) && reservationEnd.After(slotStart)
}

// SpansOverlap reports whether the 2-hour spans of two reservations
// starting at a and b intersect, under the same half-open semantics as
// Overlaps.  Used by the duplicate booking detector.
func SpansOverlap(a, b time.Time) bool {
	return a.Before(b.Add(model.Span)) && a.Add(model.Span).After(b)
}

// ParseDate parses a YYYY-MM-DD service date.  Parsed in the local
// location so it compares cleanly with reservation starts read from
// storage.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseDateTime parses a naive "YYYY-MM-DD HH:MM" reservation start in
// the local location.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	return t, nil
}

// FormatDateTime renders a reservation start in the wire format
// accepted by ParseDateTime.
func FormatDateTime(t time.Time) string { return t.Format(DateTimeFormat) }
