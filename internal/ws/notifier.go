package ws

import (
	"context"

	"table-reservation-service/internal/availability"
	"table-reservation-service/internal/queue"
)

// CommitNotifier wires a committed reservation into the invalidation
// fan-out: it drops the cached availability snapshot for the affected
// date, pushes a reservation_created frame to this node's clients and
// publishes the event to the broker for the other nodes. Each step is
// best effort; a failed fan-out only delays refreshes until the
// snapshot TTL expires.
type CommitNotifier struct {
	cache *availability.SnapshotCache
	hub   *Hub
}

// NewCommitNotifier returns a notifier over the given snapshot cache
// and hub. cache may be nil when Redis is not configured.
func NewCommitNotifier(cache *availability.SnapshotCache, hub *Hub) *CommitNotifier {
	return &CommitNotifier{cache: cache, hub: hub}
}

// ReservationCreated implements the booking pipeline's notifier hook.
// The pipeline calls it strictly after the transaction commit.
func (n *CommitNotifier) ReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) {
	n.cache.Invalidate(ctx, ev.Date)
	n.hub.BroadcastEvent(ev)
	_ = queue.PublishReservationCreated(ctx, ev)
}

// HandleRemote relays an event received from the broker to this node's
// clients. Remote events carry no origin, so everyone connected here
// gets the push.
func (n *CommitNotifier) HandleRemote(ev queue.ReservationCreatedEvent) {
	n.cache.Invalidate(context.Background(), ev.Date)
	n.hub.BroadcastEvent(ev)
}
