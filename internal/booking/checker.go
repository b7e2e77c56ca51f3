package booking

import (
	"table-reservation-service/internal/model"
	"table-reservation-service/internal/schedule"
)

// CheckReason classifies why the checker rejected a request.  A
// rejection is an expected steady-state outcome, not a fault; the
// suggestion engine consumes it to propose alternatives.
type CheckReason string

const (
	ReasonNone          CheckReason = ""
	ReasonUnknownArea   CheckReason = "unknown_area"
	ReasonNoSmoking     CheckReason = "area_disallows_smoking"
	ReasonNoChildren    CheckReason = "area_disallows_children"
	ReasonPartyTooLarge CheckReason = "party_too_large"
	ReasonNoCapacity    CheckReason = "insufficient_seats"
)

// CheckResult reports whether a candidate reservation can be
// accommodated.  On success AreaKey names the area that can take the
// party and Remaining its free seats at the candidate slot.
type CheckResult struct {
	OK        bool
	AreaKey   string
	Remaining int
	Reason    CheckReason
}

// RequiredSeats returns the number of seats a party occupies: at least
// one, otherwise the guest count.
func RequiredSeats(guests int) int {
	if guests < 1 {
		return 1
	}
	return guests
}

// disqualify applies the area eligibility rules to a draft.  Capacity is
// not considered here; only the hard rules (smoking, children, party
// size cap).
func disqualify(area model.Area, draft model.Draft) CheckReason {
	if draft.Smoking && !area.AllowsSmoking {
		return ReasonNoSmoking
	}
	if draft.Children > 0 && !area.AllowsChildren {
		return ReasonNoChildren
	}
	if draft.Guests > area.MaxGuests {
		return ReasonPartyTooLarge
	}
	return ReasonNone
}

// remainingSeats looks up the free seats of an area at the given slot
// label.  A label absent from the snapshot is treated optimistically as
// full capacity: a missing-data glitch must not permanently reject
// every request for that slot.  (A wholly unconfigured area, by
// contrast, carries capacity zero and is always full — that asymmetry
// is deliberate.)
func remainingSeats(snap *model.AreaSnapshot, label string) int {
	if sa, ok := snap.Slots[label]; ok {
		return sa.Available
	}
	return snap.Capacity
}

// Check decides whether the draft can be accommodated given the
// availability snapshot for its date.  With a preferred area set, only
// that area is considered; otherwise every non-disqualified area is a
// candidate and the first one with enough seats wins.  The function is
// pure: callers decide when in the form flow to invoke it.
func Check(draft model.Draft, snap *model.VenueSnapshot, areas []model.Area) CheckResult {
	required := RequiredSeats(draft.Guests)
	label := schedule.SlotLabel(draft.StartsAt)

	if draft.PreferredArea != "" {
		area, ok := model.AreaByKey(areas, draft.PreferredArea)
		if !ok {
			return CheckResult{Reason: ReasonUnknownArea}
		}
		if reason := disqualify(area, draft); reason != ReasonNone {
			return CheckResult{AreaKey: area.Key, Reason: reason}
		}
		remaining := areaRemaining(snap, area, label)
		if remaining >= required {
			return CheckResult{OK: true, AreaKey: area.Key, Remaining: remaining}
		}
		return CheckResult{AreaKey: area.Key, Remaining: remaining, Reason: ReasonNoCapacity}
	}

	best := CheckResult{Reason: ReasonNoCapacity}
	for _, area := range areas {
		if disqualify(area, draft) != ReasonNone {
			continue
		}
		remaining := areaRemaining(snap, area, label)
		if remaining >= required {
			return CheckResult{OK: true, AreaKey: area.Key, Remaining: remaining}
		}
		if remaining > best.Remaining {
			best = CheckResult{AreaKey: area.Key, Remaining: remaining, Reason: ReasonNoCapacity}
		}
	}
	return best
}

// areaRemaining resolves the remaining seats of an area at a slot,
// falling back to the area definition when the snapshot does not cover
// the area at all.
func areaRemaining(snap *model.VenueSnapshot, area model.Area, label string) int {
	if snap != nil {
		if as := snap.Area(area.Key); as != nil {
			return remainingSeats(as, label)
		}
	}
	// No snapshot data for this area: optimistic full capacity.
	return area.Capacity
}
