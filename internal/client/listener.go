package client

import (
	"context"
	"errors"

	"table-reservation-service/internal/booking"
	"table-reservation-service/internal/model"
	"table-reservation-service/internal/schedule"
)

// Recheck is the outcome of re-validating the guest's draft against
// fresh availability after an invalidation push. Suggestions is
// populated only when the draft no longer fits.
type Recheck struct {
	Result      booking.CheckResult
	Suggestions []booking.Suggestion
}

// Listener reacts to reservation_created pushes: drop the stale
// snapshot, refetch, and tell the guest whether their in-progress
// draft still fits the evening.
type Listener struct {
	caches  *Caches
	fetcher *Fetcher
	areas   []model.Area
}

// NewListener returns a listener over the widget's caches and fetcher.
func NewListener(caches *Caches, fetcher *Fetcher, areas []model.Area) *Listener {
	return &Listener{caches: caches, fetcher: fetcher, areas: areas}
}

// HandleInvalidation processes a push for the given date. It returns
// nil when the guest has no draft on that date; otherwise the draft is
// re-checked against a fresh snapshot. A stale refetch (the guest
// switched dates mid-flight) is treated as nothing-to-do.
func (l *Listener) HandleInvalidation(ctx context.Context, date string) (*Recheck, error) {
	l.caches.InvalidateSnapshot()

	draft, ok := l.caches.Draft()
	if !ok || draft.StartsAt.Format(schedule.DateFormat) != date {
		return nil, nil
	}

	snap, err := l.fetcher.Fetch(ctx, date)
	if err != nil {
		if errors.Is(err, ErrStaleResponse) {
			return nil, nil
		}
		return nil, err
	}

	recheck := &Recheck{Result: booking.Check(draft, snap, l.areas)}
	if !recheck.Result.OK {
		recheck.Suggestions = booking.Suggest(draft, snap, l.areas)
	}
	return recheck, nil
}
