// Package queue defines the invalidation events exchanged over the
// message broker and the WebSocket push channel.
package queue

// ReservationCreatedEvent is broadcast after a reservation commits.  It
// carries just enough for receiving clients to invalidate their cached
// availability for the affected date and re-check their own in-progress
// draft against fresh data.
//
// OriginID identifies the WebSocket client that submitted the booking;
// that client receives its acknowledgement instead of the broadcast and
// is excluded from local fan-out.  The field never crosses nodes via
// the broker, because the origin client is only connected to the
// originating node.
type ReservationCreatedEvent struct {
	AreaKey  string `json:"area"`
	Datetime string `json:"datetime"` // "YYYY-MM-DD HH:MM", naive wall clock
	Date     string `json:"date"`     // "YYYY-MM-DD", cache invalidation key
	OriginID string `json:"-"`
}
