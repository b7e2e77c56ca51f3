// Package repository provides raw-SQL data access to the areas, users
// and reservations tables.  Sentinel errors defined here let higher
// layers distinguish failure scenarios with errors.Is instead of
// inspecting driver-specific error text.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicateKey is returned when an insert violates a storage-level
// uniqueness constraint (users.email / users.phone_number).  The commit
// pipeline treats this as "retry the upsert as an update", never as a
// fatal error: it is the expected outcome of the check-then-act race
// between two concurrent bookings for the same new contact.
var ErrDuplicateKey = errors.New("duplicate key")

// isDuplicateKey detects a MySQL duplicate-entry failure (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
