package model

import "time"

// Span is the fixed length of time a single reservation occupies,
// starting at its booked time.  Every booking blocks two hours of
// seating regardless of party size.
const Span = 2 * time.Hour

// Reservation is a committed booking as stored in the `reservations`
// table.  Rows are created exactly once by the commit pipeline inside a
// transaction and are never mutated afterwards.  StartsAt is a naive
// local wall-clock value at minute precision, always aligned to :00 or
// :30.
//
// Fields:
//  ID                – primary key identifier.
//  UserID            – owning user (upserted by the commit pipeline).
//  AreaID            – assigned seating area.
//  Guests            – total party size (>= 1).
//  Children          – number of children in the party (0..Guests).
//  Smoking           – whether the party requested a smoking area.
//  Birthday          – whether the booking celebrates a birthday.
//  BirthdayGuestName – name of the birthday guest (nil when Birthday is false).
//  StartsAt          – booked start time; the span is [StartsAt, StartsAt+2h).
//  CreatedAt         – creation timestamp.
type Reservation struct {
	ID                uint64     // reservations.id
	UserID            uint64     // reservations.user_id
	AreaID            uint64     // reservations.area_id
	Guests            int        // reservations.guests
	Children          int        // reservations.children
	Smoking           bool       // reservations.smoking
	Birthday          bool       // reservations.birthday
	BirthdayGuestName *string    // reservations.birthday_guest_name (nullable)
	StartsAt          time.Time  // reservations.datetime
	CreatedAt         time.Time  // reservations.created_at
}

// ContactReservation pairs a committed reservation with the contact
// details of its owning user.  The duplicate booking detector needs the
// stored email and phone to report which field matched the candidate.
type ContactReservation struct {
	Reservation
	Email string // users.email
	Phone string // users.phone_number
}

// Draft is an in-progress, not-yet-committed reservation held by the
// client across the booking form flow.  It carries the raw contact
// fields that the commit pipeline sanitizes, validates and upserts.
// PreferredArea is an area key or empty when the guest has no
// preference.
type Draft struct {
	StartsAt          time.Time
	Name              string
	Email             string
	Phone             string
	Guests            int
	Children          int
	Smoking           bool
	Birthday          bool
	BirthdayGuestName string
	PreferredArea     string
}
