package model

// Area represents one of the venue's fixed seating areas as stored in
// the `areas` table.  The venue operates exactly four areas; their keys
// form a closed enumeration and never change at runtime.  Eligibility
// rules (children, smoking) and the party-size cap live here alongside
// the raw seat capacity.
//
// Fields:
//  ID             – primary key identifier.
//  Key            – stable area key, one of the Area* constants.
//  Name           – display label shown to guests.
//  Capacity       – total number of seats in the area.
//  AllowsChildren – whether parties with children may book the area.
//  AllowsSmoking  – whether smoking parties may book the area.
//  MaxGuests      – largest party size accepted for a single booking.
type Area struct {
	ID             uint64 // areas.id
	Key            string // areas.area_key
	Name           string // areas.name
	Capacity       int    // areas.capacity
	AllowsChildren bool   // areas.allows_children
	AllowsSmoking  bool   // areas.allows_smoking
	MaxGuests      int    // areas.max_guests
}

// Canonical area keys.  These four values are the complete set for the
// venue; anything else is rejected during validation.
const (
	AreaMainHall  = "main-hall"
	AreaTerrace   = "terrace"
	AreaBar       = "bar"
	AreaVIPLounge = "vip-lounge"
)

// defaultAreas is the venue's reference capacity table.  It mirrors the
// seed rows in migrations/schema.sql and is used wherever a caller needs
// the area definitions without a database round trip (client-side checks,
// tests).  The slice itself is never handed out; use DefaultAreas.
var defaultAreas = []Area{
	{ID: 1, Key: AreaMainHall, Name: "Main Hall", Capacity: 40, AllowsChildren: true, AllowsSmoking: false, MaxGuests: 12},
	{ID: 2, Key: AreaTerrace, Name: "Terrace", Capacity: 20, AllowsChildren: true, AllowsSmoking: true, MaxGuests: 12},
	{ID: 3, Key: AreaBar, Name: "Bar", Capacity: 10, AllowsChildren: false, AllowsSmoking: true, MaxGuests: 4},
	{ID: 4, Key: AreaVIPLounge, Name: "VIP Lounge", Capacity: 12, AllowsChildren: true, AllowsSmoking: false, MaxGuests: 8},
}

// DefaultAreas returns a fresh copy of the reference capacity table.
// Returning a copy keeps the package-level slice immutable: callers can
// reorder or mutate the result freely without affecting other readers.
func DefaultAreas() []Area {
	out := make([]Area, len(defaultAreas))
	copy(out, defaultAreas)
	return out
}

// AreaByKey looks up an area definition by its stable key within the
// provided capacity table.  The second return value reports whether the
// key was found.
func AreaByKey(areas []Area, key string) (Area, bool) {
	for _, a := range areas {
		if a.Key == key {
			return a, true
		}
	}
	return Area{}, false
}
