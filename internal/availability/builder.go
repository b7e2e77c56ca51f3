// Package availability derives per-slot seat availability from committed
// reservations.  Snapshots are always recomputed from the underlying
// rows; they are a view, never a source of truth.
package availability

import (
	"time"

	"table-reservation-service/internal/model"
	"table-reservation-service/internal/schedule"
)

// BuildArea computes the availability snapshot for one area on one date.
// For each slot of the grid it sums the guests of every reservation
// whose 2-hour span overlaps the slot and clamps the remainder at zero.
// The input order of reservations is irrelevant and the function is
// idempotent: identical inputs always produce identical output.
//
// An area with zero capacity is treated as always fully booked rather
// than as an error; a provisional area may legitimately have no seats.
func BuildArea(area model.Area, date time.Time, reservations []model.Reservation) model.AreaSnapshot {
	snap := model.AreaSnapshot{
		AreaKey:        area.Key,
		Name:           area.Name,
		Capacity:       area.Capacity,
		AllowsChildren: area.AllowsChildren,
		AllowsSmoking:  area.AllowsSmoking,
		MaxGuests:      area.MaxGuests,
		Slots:          make(map[string]model.SlotAvailability, 9),
	}
	for _, label := range schedule.Slots() {
		slotStart, err := schedule.SlotTime(date, label)
		if err != nil {
			continue
		}
		reserved := 0
		for _, r := range reservations {
			if schedule.Overlaps(r.StartsAt, slotStart) {
				reserved += r.Guests
			}
		}
		available := area.Capacity - reserved
		if available < 0 {
			available = 0
		}
		snap.Slots[label] = model.SlotAvailability{Reserved: reserved, Available: available}
	}
	return snap
}

// BuildVenue aggregates the per-area snapshots for the whole venue.
// byArea maps area IDs to the committed reservations of that area on the
// given date; areas absent from the map produce fully available
// snapshots.
func BuildVenue(areas []model.Area, date time.Time, byArea map[uint64][]model.Reservation) *model.VenueSnapshot {
	out := &model.VenueSnapshot{
		Date:  date.Format(schedule.DateFormat),
		Areas: make([]model.AreaSnapshot, 0, len(areas)),
	}
	for _, area := range areas {
		out.Areas = append(out.Areas, BuildArea(area, date, byArea[area.ID]))
	}
	return out
}
