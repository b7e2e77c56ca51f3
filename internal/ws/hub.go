// Package ws implements the realtime push channel. Connected clients
// submit reservations over a WebSocket and receive invalidation pushes
// when any client commits, so their cached availability never outlives
// the next booking by more than a network round trip.
package ws

import (
	"encoding/json"
	"log"

	"table-reservation-service/internal/queue"
)

// pushMessage is the frame fanned out to connected clients after a
// reservation commits somewhere in the cluster.
type pushMessage struct {
	Type     string `json:"type"`
	Area     string `json:"area"`
	Datetime string `json:"datetime"`
	Date     string `json:"date"`
}

type outbound struct {
	originID string // excluded from delivery; empty delivers to all
	data     []byte
}

// Hub maintains the set of active clients and fans outbound frames to
// them. All client-set mutation happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
}

// NewHub returns an idle hub. Call Run on its own goroutine before
// registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register, unregister and broadcast requests until the
// process exits.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				if msg.originID != "" && c.id == msg.originID {
					// The submitting client gets an ack instead.
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					// Slow consumer: drop the connection rather
					// than block the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// BroadcastEvent pushes a reservation_created frame to every connected
// client except the event's origin.
func (h *Hub) BroadcastEvent(ev queue.ReservationCreatedEvent) {
	data, err := json.Marshal(pushMessage{
		Type:     "reservation_created",
		Area:     ev.AreaKey,
		Datetime: ev.Datetime,
		Date:     ev.Date,
	})
	if err != nil {
		log.Printf("ws: marshal push failed: %v", err)
		return
	}
	h.broadcast <- outbound{originID: ev.OriginID, data: data}
}
