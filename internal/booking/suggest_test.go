package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-reservation-service/internal/availability"
	"table-reservation-service/internal/model"
)

// fullVenue builds a snapshot where every area is booked solid at every
// slot except the exceptions applied by the caller.
func fullVenue(t *testing.T, free map[string]map[string]int) *model.VenueSnapshot {
	t.Helper()
	snap := availability.BuildVenue(testAreas, testDate, nil)
	for i := range snap.Areas {
		for label := range snap.Areas[i].Slots {
			avail := 0
			if slots, ok := free[snap.Areas[i].AreaKey]; ok {
				avail = slots[label]
			}
			cap := snap.Areas[i].Capacity
			snap.Areas[i].Slots[label] = model.SlotAvailability{Reserved: cap - avail, Available: avail}
		}
	}
	return snap
}

func kinds(suggestions []Suggestion) []SuggestionKind {
	out := make([]SuggestionKind, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Kind
	}
	return out
}

func TestSuggestReduceParty(t *testing.T) {
	// 3 seats left in the bar at 19:00, party of 4 wants the bar.
	snap := fullVenue(t, map[string]map[string]int{model.AreaBar: {"19:00": 3}})
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 4, PreferredArea: model.AreaBar}

	got := Suggest(draft, snap, testAreas)
	require.NotEmpty(t, got)
	assert.Equal(t, SuggestReduceParty, got[0].Kind)
	assert.Equal(t, 3, got[0].Guests)
}

func TestSuggestReducePartyRespectsAreaCap(t *testing.T) {
	// 10 seats free in the bar, but its party cap is 4: proposing more
	// than 4 would just be rejected again.
	snap := fullVenue(t, map[string]map[string]int{model.AreaBar: {"19:00": 10}})
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 12, PreferredArea: model.AreaBar}

	got := Suggest(draft, snap, testAreas)
	require.NotEmpty(t, got)
	assert.Equal(t, SuggestReduceParty, got[0].Kind)
	assert.Equal(t, 4, got[0].Guests)
}

func TestSuggestNoReduceForSoloGuest(t *testing.T) {
	snap := fullVenue(t, nil)
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 1, PreferredArea: model.AreaBar}
	assert.NotContains(t, kinds(Suggest(draft, snap, testAreas)), SuggestReduceParty)
}

func TestSuggestDisableSmoking(t *testing.T) {
	// Smoking areas are full; the Main Hall (non-smoking) has room.
	snap := fullVenue(t, map[string]map[string]int{model.AreaMainHall: {"19:00": 10}})
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 4, Smoking: true, PreferredArea: model.AreaTerrace}

	got := Suggest(draft, snap, testAreas)
	assert.Contains(t, kinds(got), SuggestDisableSmoking)
}

func TestSuggestDropChildrenRequiresBarSeats(t *testing.T) {
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 3, Children: 2, PreferredArea: model.AreaBar}

	// Bar has enough seats for the party without children.
	snap := fullVenue(t, map[string]map[string]int{model.AreaBar: {"19:00": 5}})
	assert.Contains(t, kinds(Suggest(draft, snap, testAreas)), SuggestDropChildren)

	// Bar too full: no drop-children suggestion.
	snap = fullVenue(t, map[string]map[string]int{model.AreaBar: {"19:00": 2}})
	assert.NotContains(t, kinds(Suggest(draft, snap, testAreas)), SuggestDropChildren)
}

func TestSuggestNoDropChildrenForLargeParty(t *testing.T) {
	// Guests > 4 never fit the bar, so the relaxation is pointless.
	snap := fullVenue(t, map[string]map[string]int{model.AreaBar: {"19:00": 10}})
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 5, Children: 1, PreferredArea: model.AreaMainHall}
	assert.NotContains(t, kinds(Suggest(draft, snap, testAreas)), SuggestDropChildren)
}

func TestSuggestSwitchAreaCarriesTarget(t *testing.T) {
	// Terrace is full; main hall and VIP lounge have room.  Bar is
	// excluded because the party has children.
	snap := fullVenue(t, map[string]map[string]int{
		model.AreaMainHall:  {"19:00": 12},
		model.AreaVIPLounge: {"19:00": 8},
		model.AreaBar:       {"19:00": 10},
	})
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 4, Children: 1, PreferredArea: model.AreaTerrace}

	var targets []string
	for _, s := range Suggest(draft, snap, testAreas) {
		if s.Kind == SuggestSwitchArea {
			targets = append(targets, s.AreaKey)
		}
	}
	assert.ElementsMatch(t, []string{model.AreaMainHall, model.AreaVIPLounge}, targets)
}

func TestSuggestSwitchTimeSortedAndCapped(t *testing.T) {
	snap := fullVenue(t, map[string]map[string]int{
		model.AreaTerrace: {"21:30": 6, "18:00": 6, "20:00": 6, "19:30": 6},
	})
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 4, PreferredArea: model.AreaTerrace}

	var switchTime *Suggestion
	for _, s := range Suggest(draft, snap, testAreas) {
		if s.Kind == SuggestSwitchTime {
			copied := s
			switchTime = &copied
		}
	}
	require.NotNil(t, switchTime)
	assert.Equal(t, []string{"18:00", "19:30", "20:00"}, switchTime.Slots)
	assert.Contains(t, switchTime.Message, "18:00")
	assert.Contains(t, switchTime.Message, "19:30")
	assert.NotContains(t, switchTime.Message, "20:00")
}

func TestSuggestExcludesCandidateSlot(t *testing.T) {
	snap := fullVenue(t, map[string]map[string]int{model.AreaTerrace: {"19:00": 6}})
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 8, PreferredArea: model.AreaTerrace}

	for _, s := range Suggest(draft, snap, testAreas) {
		if s.Kind == SuggestSwitchTime {
			assert.NotContains(t, s.Slots, "19:00")
		}
	}
}

func TestSuggestPriorityOrder(t *testing.T) {
	// Construct a situation triggering several rules at once and check
	// the fixed ordering: reduce party before switch area before
	// switch time.
	snap := fullVenue(t, map[string]map[string]int{
		model.AreaTerrace:  {"19:00": 2, "20:30": 6},
		model.AreaMainHall: {"19:00": 6},
	})
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 4, PreferredArea: model.AreaTerrace}

	got := kinds(Suggest(draft, snap, testAreas))
	require.NotEmpty(t, got)

	pos := map[SuggestionKind]int{}
	for i, k := range got {
		if _, seen := pos[k]; !seen {
			pos[k] = i
		}
	}
	assert.Less(t, pos[SuggestReduceParty], pos[SuggestSwitchArea])
	assert.Less(t, pos[SuggestSwitchArea], pos[SuggestSwitchTime])
}
