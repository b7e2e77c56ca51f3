// Package client implements the booking widget's client-side state: a
// short-lived availability cache, a draft that survives page
// navigation, and the reaction to invalidation pushes from the server.
package client

import (
	"sync"
	"time"

	"table-reservation-service/internal/model"
)

// Cache lifetimes. The draft lives long enough for a guest to wander
// off and come back; the snapshot is short because other guests book
// against the same evening continuously.
const (
	DraftTTL    = 30 * time.Minute
	SnapshotTTL = 2 * time.Minute
)

// Caches holds the widget's cached draft and availability snapshot.
// Reads of the snapshot return deep copies, so callers can decorate or
// mutate the result without poisoning later reads. Safe for concurrent
// use.
type Caches struct {
	mu  sync.Mutex
	now func() time.Time

	draft      *model.Draft
	draftAt    time.Time
	snapshot   *model.VenueSnapshot
	snapshotAt time.Time
}

// NewCaches returns empty caches. now is the clock used for TTL
// expiry; pass nil for the real clock.
func NewCaches(now func() time.Time) *Caches {
	if now == nil {
		now = time.Now
	}
	return &Caches{now: now}
}

// SaveDraft stores the in-progress draft and restarts its TTL.
func (c *Caches) SaveDraft(d model.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := d
	c.draft = &copied
	c.draftAt = c.now()
}

// Draft returns the cached draft, or false when none is stored or the
// stored one has expired.
func (c *Caches) Draft() (model.Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil || c.now().Sub(c.draftAt) > DraftTTL {
		c.draft = nil
		return model.Draft{}, false
	}
	return *c.draft, true
}

// ClearDraft drops the cached draft, typically after a successful
// commit.
func (c *Caches) ClearDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = nil
}

// SaveSnapshot stores an availability snapshot and restarts its TTL.
func (c *Caches) SaveSnapshot(snap *model.VenueSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snap.Clone()
	c.snapshotAt = c.now()
}

// Snapshot returns a deep copy of the cached snapshot for the given
// date, or false on a miss. A snapshot cached for a different date is
// a miss, not an error; the widget simply refetches.
func (c *Caches) Snapshot(date string) (*model.VenueSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil || c.snapshot.Date != date || c.now().Sub(c.snapshotAt) > SnapshotTTL {
		return nil, false
	}
	return c.snapshot.Clone(), true
}

// InvalidateSnapshot drops the cached snapshot unconditionally. Only
// one date is cached at a time, so a push for any date simply forces
// the next read to refetch. The draft is never touched by pushes.
func (c *Caches) InvalidateSnapshot() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
