package booking

import (
	"strings"
	"time"

	"table-reservation-service/internal/model"
	"table-reservation-service/internal/schedule"
)

// Matched-by values reported with a duplicate hit.
const (
	MatchedByEmail = "email"
	MatchedByPhone = "phone"
)

// DuplicateMatch describes an existing reservation that collides with a
// candidate start time for the same contact.  The check is advisory: it
// warns the guest before submission, and nothing at the storage layer
// prevents double-booking the same contact.
type DuplicateMatch struct {
	MatchedBy   string
	Reservation model.ContactReservation
}

// FindDuplicate scans a contact's committed reservations (expected
// newest first, as returned by ListByContact) and reports the first one
// whose 2-hour span overlaps the candidate's span.  Email match takes
// precedence over phone when both fields match the same row.  Nil is
// returned when nothing overlaps or the set is empty.
func FindDuplicate(email, phone string, candidateStart time.Time, existing []model.ContactReservation) *DuplicateMatch {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	for _, cr := range existing {
		if !schedule.SpansOverlap(candidateStart, cr.StartsAt) {
			continue
		}
		// Email precedence: when both fields match the same row, the
		// hit is attributed to the email.
		matchedBy := MatchedByPhone
		if email != "" && strings.EqualFold(cr.Email, email) {
			matchedBy = MatchedByEmail
		}
		return &DuplicateMatch{MatchedBy: matchedBy, Reservation: cr}
	}
	return nil
}
