package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-reservation-service/internal/availability"
	"table-reservation-service/internal/model"
)

var (
	testAreas = model.DefaultAreas()
	testDate  = time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local)
)

func startAt(hour, min int) time.Time {
	return time.Date(2026, 2, 14, hour, min, 0, 0, time.Local)
}

// snapshotWith builds a venue snapshot with the given committed
// reservations assigned to the named area.
func snapshotWith(t *testing.T, areaKey string, reservations ...model.Reservation) *model.VenueSnapshot {
	t.Helper()
	area, ok := model.AreaByKey(testAreas, areaKey)
	require.True(t, ok)
	byArea := map[uint64][]model.Reservation{area.ID: reservations}
	return availability.BuildVenue(testAreas, testDate, byArea)
}

func TestCheckPreferredAreaSucceeds(t *testing.T) {
	snap := snapshotWith(t, model.AreaBar, model.Reservation{Guests: 4, StartsAt: startAt(18, 0)})
	draft := model.Draft{StartsAt: startAt(18, 30), Guests: 4, PreferredArea: model.AreaBar}

	res := Check(draft, snap, testAreas)
	assert.True(t, res.OK)
	assert.Equal(t, model.AreaBar, res.AreaKey)
	assert.Equal(t, 6, res.Remaining)
}

func TestCheckDisqualifiesBarForChildren(t *testing.T) {
	// Children disqualify the Bar regardless of remaining capacity.
	snap := snapshotWith(t, model.AreaBar)
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 3, Children: 2, PreferredArea: model.AreaBar}

	res := Check(draft, snap, testAreas)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonNoChildren, res.Reason)
}

func TestCheckDisqualifiesNonSmokingArea(t *testing.T) {
	snap := snapshotWith(t, model.AreaMainHall)
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 2, Smoking: true, PreferredArea: model.AreaMainHall}

	res := Check(draft, snap, testAreas)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonNoSmoking, res.Reason)
}

func TestCheckPartyTooLarge(t *testing.T) {
	snap := snapshotWith(t, model.AreaBar)
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 6, PreferredArea: model.AreaBar}

	res := Check(draft, snap, testAreas)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonPartyTooLarge, res.Reason)
}

func TestCheckInsufficientSeats(t *testing.T) {
	snap := snapshotWith(t, model.AreaBar, model.Reservation{Guests: 8, StartsAt: startAt(19, 0)})
	draft := model.Draft{StartsAt: startAt(19, 30), Guests: 4, PreferredArea: model.AreaBar}

	res := Check(draft, snap, testAreas)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonNoCapacity, res.Reason)
	assert.Equal(t, 2, res.Remaining)
}

func TestCheckMissingSlotKeyIsOptimistic(t *testing.T) {
	// A slot label absent from the snapshot counts as full capacity so
	// a missing-data glitch cannot permanently reject the slot.
	snap := snapshotWith(t, model.AreaBar)
	for i := range snap.Areas {
		delete(snap.Areas[i].Slots, "19:00")
	}
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 4, PreferredArea: model.AreaBar}

	res := Check(draft, snap, testAreas)
	assert.True(t, res.OK)
	assert.Equal(t, 10, res.Remaining)
}

func TestCheckNoPreferencePicksAnyEligibleArea(t *testing.T) {
	snap := snapshotWith(t, model.AreaMainHall)
	draft := model.Draft{StartsAt: startAt(20, 0), Guests: 5, Children: 1}

	res := Check(draft, snap, testAreas)
	assert.True(t, res.OK)
	assert.NotEmpty(t, res.AreaKey)
	assert.NotEqual(t, model.AreaBar, res.AreaKey, "bar disallows children")
}

func TestCheckUnknownArea(t *testing.T) {
	snap := snapshotWith(t, model.AreaBar)
	draft := model.Draft{StartsAt: startAt(19, 0), Guests: 2, PreferredArea: "rooftop"}

	res := Check(draft, snap, testAreas)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonUnknownArea, res.Reason)
}

func TestRequiredSeats(t *testing.T) {
	assert.Equal(t, 1, RequiredSeats(0))
	assert.Equal(t, 1, RequiredSeats(1))
	assert.Equal(t, 7, RequiredSeats(7))
}
