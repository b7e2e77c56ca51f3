package model

import "time"

// User mirrors the `users` table.  Users are keyed by contact identity:
// both email and phone number carry storage-level UNIQUE constraints,
// which are the final backstop against the check-then-act race in the
// commit pipeline's upsert.  A user found by either field has its name,
// email and phone refreshed to the latest submitted values
// (last-write-wins), never appended.
type User struct {
	ID        uint64    // users.id
	Name      string    // users.name
	Email     string    // users.email (UNIQUE)
	Phone     string    // users.phone_number (UNIQUE)
	CreatedAt time.Time // users.created_at
	UpdatedAt time.Time // users.updated_at
}
