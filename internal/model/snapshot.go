package model

// SlotAvailability holds the seat arithmetic for a single half-hour slot
// within one area: how many seats are taken by overlapping reservations
// and how many remain.  Available is always max(0, capacity-reserved).
type SlotAvailability struct {
	Reserved  int `json:"reserved"`
	Available int `json:"available"`
}

// AreaSnapshot is the derived availability view of a single area for one
// date.  Slots maps slot labels ("HH:MM") to their seat arithmetic.  The
// snapshot is ephemeral: it is recomputed from committed reservations on
// every fetch and is never itself a source of truth.
type AreaSnapshot struct {
	AreaKey        string                      `json:"areaId"`
	Name           string                      `json:"name"`
	Capacity       int                         `json:"capacity"`
	AllowsChildren bool                        `json:"allowsChildren"`
	AllowsSmoking  bool                        `json:"allowsSmoking"`
	MaxGuests      int                         `json:"maxGuests"`
	Slots          map[string]SlotAvailability `json:"availability"`
}

// VenueSnapshot aggregates the per-area snapshots for one date.  Date is
// formatted as YYYY-MM-DD.
type VenueSnapshot struct {
	Date  string         `json:"date"`
	Areas []AreaSnapshot `json:"areas"`
}

// Area returns the snapshot for the given area key, or nil when the key
// is not present.
func (s *VenueSnapshot) Area(key string) *AreaSnapshot {
	for i := range s.Areas {
		if s.Areas[i].AreaKey == key {
			return &s.Areas[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot.  Cached snapshots are
// always handed out as copies so that consumers cannot alias and mutate
// the cached state.
func (s *VenueSnapshot) Clone() *VenueSnapshot {
	if s == nil {
		return nil
	}
	out := &VenueSnapshot{Date: s.Date, Areas: make([]AreaSnapshot, len(s.Areas))}
	for i, a := range s.Areas {
		copied := a
		copied.Slots = make(map[string]SlotAvailability, len(a.Slots))
		for label, sa := range a.Slots {
			copied.Slots[label] = sa
		}
		out.Areas[i] = copied
	}
	return out
}
