package booking

import (
	"fmt"
	"sort"
	"strings"

	"table-reservation-service/internal/model"
	"table-reservation-service/internal/schedule"
)

// SuggestionKind identifies which relaxation a suggestion applies.  The
// caller uses it to jump to the matching form step without re-deriving
// intent from the message text.
type SuggestionKind string

const (
	SuggestReduceParty    SuggestionKind = "reduce_party"
	SuggestDisableSmoking SuggestionKind = "disable_smoking"
	SuggestDropChildren   SuggestionKind = "drop_children"
	SuggestSwitchArea     SuggestionKind = "switch_area"
	SuggestSwitchTime     SuggestionKind = "switch_time"
)

// Suggestion is one actionable alternative for a rejected request.
// Guests carries the proposed party size for reduce_party, AreaKey the
// target area for switch_area, and Slots the viable slot labels for
// switch_time; the other kinds need no extra data.
type Suggestion struct {
	Kind    SuggestionKind `json:"kind"`
	Message string         `json:"message"`
	AreaKey string         `json:"areaId,omitempty"`
	Guests  int            `json:"guests,omitempty"`
	Slots   []string       `json:"slots,omitempty"`
}

// Suggest searches the rule-ordered set of relaxations for a draft the
// checker rejected and returns ranked, independently evaluated
// alternatives.  It performs no mutation: it is a pure function of the
// draft, the snapshot and the capacity table.  Invoke it only after
// Check has failed; calling it for an accommodable draft simply returns
// suggestions the caller does not need.
func Suggest(draft model.Draft, snap *model.VenueSnapshot, areas []model.Area) []Suggestion {
	out := make([]Suggestion, 0, 4)
	label := schedule.SlotLabel(draft.StartsAt)
	required := RequiredSeats(draft.Guests)

	if s, ok := suggestReduceParty(draft, snap, areas, label); ok {
		out = append(out, s)
	}
	if s, ok := suggestDisableSmoking(draft, snap, areas, label); ok {
		out = append(out, s)
	}
	if s, ok := suggestDropChildren(draft, snap, areas, label, required); ok {
		out = append(out, s)
	}
	out = append(out, suggestSwitchArea(draft, snap, areas, label, required)...)
	if s, ok := suggestSwitchTime(draft, snap, areas, label, required); ok {
		out = append(out, s)
	}
	return out
}

// candidateAreas returns the areas a relaxed draft could use: the
// preferred area alone when one is set and still passes the hard
// eligibility rules, otherwise every eligible area.
func candidateAreas(draft model.Draft, areas []model.Area) []model.Area {
	if draft.PreferredArea != "" {
		if area, ok := model.AreaByKey(areas, draft.PreferredArea); ok {
			if disqualify(area, draft) == ReasonNone {
				return []model.Area{area}
			}
		}
	}
	eligible := make([]model.Area, 0, len(areas))
	for _, area := range areas {
		if disqualify(area, draft) == ReasonNone {
			eligible = append(eligible, area)
		}
	}
	return eligible
}

// Rule 1: a smaller party may still fit.  Suggested only when some
// candidate area has seats left, but fewer than requested.
func suggestReduceParty(draft model.Draft, snap *model.VenueSnapshot, areas []model.Area, label string) (Suggestion, bool) {
	if draft.Guests <= 1 {
		return Suggestion{}, false
	}
	// Ignore the party-size cap while picking candidate areas, but
	// clamp the proposal to each area's cap so the reduced party would
	// actually pass the checker there.
	relaxed := draft
	relaxed.Guests = 1
	maxRemaining := 0
	for _, area := range candidateAreas(relaxed, areas) {
		r := areaRemaining(snap, area, label)
		if r > area.MaxGuests {
			r = area.MaxGuests
		}
		if r > maxRemaining {
			maxRemaining = r
		}
	}
	if maxRemaining <= 0 || maxRemaining >= draft.Guests {
		return Suggestion{}, false
	}
	return Suggestion{
		Kind:    SuggestReduceParty,
		Guests:  maxRemaining,
		Message: fmt.Sprintf("Only %d seats are left at %s. Reduce the party to %d guests?", maxRemaining, label, maxRemaining),
	}, true
}

// Rule 2: dropping the smoking requirement opens the non-smoking areas.
func suggestDisableSmoking(draft model.Draft, snap *model.VenueSnapshot, areas []model.Area, label string) (Suggestion, bool) {
	if !draft.Smoking {
		return Suggestion{}, false
	}
	relaxed := draft
	relaxed.Smoking = false
	required := RequiredSeats(draft.Guests)
	for _, area := range areas {
		if area.AllowsSmoking {
			continue
		}
		if disqualify(area, relaxed) != ReasonNone {
			continue
		}
		if areaRemaining(snap, area, label) >= required {
			return Suggestion{
				Kind:    SuggestDisableSmoking,
				Message: fmt.Sprintf("A non-smoking area (%s) has room at %s. Book without smoking?", area.Name, label),
			}, true
		}
	}
	return Suggestion{}, false
}

// Rule 3: the Bar is the only area that disallows children, and it only
// takes small parties.  Suggested when removing the children from the
// party would let it fit there.
func suggestDropChildren(draft model.Draft, snap *model.VenueSnapshot, areas []model.Area, label string, required int) (Suggestion, bool) {
	if draft.Children == 0 || draft.Guests > 4 {
		return Suggestion{}, false
	}
	barArea, ok := model.AreaByKey(areas, model.AreaBar)
	if !ok {
		return Suggestion{}, false
	}
	if areaRemaining(snap, barArea, label) < required {
		return Suggestion{}, false
	}
	return Suggestion{
		Kind:    SuggestDropChildren,
		Message: fmt.Sprintf("The %s has room at %s for adult parties. Book without children?", barArea.Name, label),
	}, true
}

// Rule 4: other areas may have room at the same slot.  Each target is a
// separate suggestion carrying the area key so the caller can pre-fill
// it; capped at three.
func suggestSwitchArea(draft model.Draft, snap *model.VenueSnapshot, areas []model.Area, label string, required int) []Suggestion {
	if draft.PreferredArea == "" {
		return nil
	}
	preferred, ok := model.AreaByKey(areas, draft.PreferredArea)
	if ok && areaRemaining(snap, preferred, label) >= required && disqualify(preferred, draft) == ReasonNone {
		return nil // the preferred area itself suffices
	}
	out := make([]Suggestion, 0, 3)
	for _, area := range areas {
		if area.Key == draft.PreferredArea {
			continue
		}
		if disqualify(area, draft) != ReasonNone {
			continue
		}
		if areaRemaining(snap, area, label) < required {
			continue
		}
		out = append(out, Suggestion{
			Kind:    SuggestSwitchArea,
			AreaKey: area.Key,
			Message: fmt.Sprintf("The %s has %d free seats at %s. Switch area?", area.Name, areaRemaining(snap, area, label), label),
		})
		if len(out) == 3 {
			break
		}
	}
	return out
}

// Rule 5: a different slot may work.  Scans every slot label present in
// the snapshot except the candidate's own, keeps those where any
// eligible area has enough seats, sorts lexicographically, caps at
// three and names up to two in the message.
func suggestSwitchTime(draft model.Draft, snap *model.VenueSnapshot, areas []model.Area, label string, required int) (Suggestion, bool) {
	if snap == nil {
		return Suggestion{}, false
	}
	seen := make(map[string]struct{})
	for _, as := range snap.Areas {
		for slot := range as.Slots {
			seen[slot] = struct{}{}
		}
	}
	delete(seen, label)

	viable := make([]string, 0, len(seen))
	for slot := range seen {
		for _, area := range candidateAreas(draft, areas) {
			if as := snap.Area(area.Key); as != nil && remainingSeats(as, slot) >= required {
				viable = append(viable, slot)
				break
			}
		}
	}
	if len(viable) == 0 {
		return Suggestion{}, false
	}
	sort.Strings(viable)
	if len(viable) > 3 {
		viable = viable[:3]
	}
	named := viable
	if len(named) > 2 {
		named = named[:2]
	}
	return Suggestion{
		Kind:    SuggestSwitchTime,
		Slots:   viable,
		Message: fmt.Sprintf("Try a different time, for example %s.", strings.Join(named, " or ")),
	}, true
}
