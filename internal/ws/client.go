package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"table-reservation-service/internal/booking"
	"table-reservation-service/internal/model"
	"table-reservation-service/internal/schedule"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// commitTimeout bounds a single reservation commit so a hung
	// database cannot stall the read pump indefinitely.
	commitTimeout = 15 * time.Second
)

// Committer commits a reservation draft on behalf of a client. The
// booking pipeline satisfies it; tests substitute a fake.
type Committer interface {
	Commit(ctx context.Context, draft model.Draft, originID string) (*model.Reservation, error)
}

// clientFrame is the envelope clients send over the socket.
type clientFrame struct {
	Type      string       `json:"type"`
	RequestID string       `json:"request_id"`
	Payload   draftPayload `json:"payload"`
}

// draftPayload is the wire form of a reservation draft. Datetime is a
// naive local wall-clock value, "YYYY-MM-DD HH:MM".
type draftPayload struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Guests            int    `json:"guests"`
	Children          int    `json:"children"`
	Smoking           bool   `json:"smoking"`
	Birthday          bool   `json:"birthday"`
	BirthdayGuestName string `json:"birthdayGuestName"`
	Area              string `json:"area"`
	Datetime          string `json:"datetime"`
}

// ackMessage is the direct reply to a create_reservation frame. The
// submitting client receives this instead of the broadcast push.
type ackMessage struct {
	Type          string `json:"type"`
	RequestID     string `json:"request_id"`
	OK            bool   `json:"ok"`
	ReservationID uint64 `json:"reservation_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Client is one WebSocket connection. The id doubles as the broadcast
// origin marker so a client never receives the push for its own commit.
type Client struct {
	id        string
	hub       *Hub
	committer Committer
	conn      *websocket.Conn
	send      chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The booking widget is embedded on the venue's site; origin
	// enforcement is left to the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve upgrades an HTTP request to a WebSocket connection and attaches
// it to the hub.
func Serve(hub *Hub, committer Committer, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{
		id:        newClientID(),
		hub:       hub,
		committer: committer,
		conn:      conn,
		send:      make(chan []byte, 16),
	}
	hub.register <- c

	go c.writePump()
	go c.readPump()
	return nil
}

func newClientID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "client-" + hex.EncodeToString([]byte(time.Now().Format("150405.000")))
	}
	return hex.EncodeToString(b[:])
}

// readPump pumps frames from the socket to the booking pipeline.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read failed: %v", err)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.reply(ackMessage{Type: "ack", OK: false, Error: "malformed frame"})
			continue
		}
		switch frame.Type {
		case "create_reservation":
			c.handleCreate(frame)
		default:
			c.reply(ackMessage{Type: "ack", RequestID: frame.RequestID, OK: false, Error: "unknown message type"})
		}
	}
}

func (c *Client) handleCreate(frame clientFrame) {
	ack := ackMessage{Type: "ack", RequestID: frame.RequestID}

	draft, err := frame.Payload.toDraft()
	if err != nil {
		ack.Error = err.Error()
		c.reply(ack)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()
	res, err := c.committer.Commit(ctx, draft, c.id)
	switch {
	case err == nil:
		ack.OK = true
		ack.ReservationID = res.ID
	case errors.Is(err, booking.ErrValidation):
		ack.Error = err.Error()
	default:
		ack.Error = "could not complete the reservation, please try again"
	}
	c.reply(ack)
}

func (p draftPayload) toDraft() (model.Draft, error) {
	startsAt, err := schedule.ParseDateTime(p.Datetime)
	if err != nil {
		return model.Draft{}, errors.New("datetime must be formatted as YYYY-MM-DD HH:MM")
	}
	return model.Draft{
		Name:              p.Name,
		Email:             p.Email,
		Phone:             p.Phone,
		Guests:            p.Guests,
		Children:          p.Children,
		Smoking:           p.Smoking,
		Birthday:          p.Birthday,
		BirthdayGuestName: p.BirthdayGuestName,
		PreferredArea:     p.Area,
		StartsAt:          startsAt,
	}, nil
}

// reply queues a direct frame to this client only.
func (c *Client) reply(msg ackMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: marshal ack failed: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("ws: dropping ack for slow client %s", c.id)
	}
}

// writePump pumps queued frames to the socket and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
