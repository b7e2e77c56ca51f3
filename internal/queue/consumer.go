package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartInvalidationConsumer connects to RabbitMQ, declares the
// reservation.created fanout exchange and binds a fresh exclusive queue
// to it, then starts consuming. Each event is handed to handle, which
// relays it to this node's connected WebSocket clients. The function
// runs a reconnect loop and never returns; it logs processing errors
// and rejects the offending message so the server continues operating.
//
// Events published by this very node come back through the exchange
// too. That is harmless: OriginID never crosses the broker, so the
// relay treats the echo like any other remote commit and the origin
// client has already been handled locally.
func StartInvalidationConsumer(handle func(ReservationCreatedEvent)) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("invalidation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, handle); err != nil {
			log.Printf("invalidation-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
		_ = conn.Close()
	}
}

func consumeLoop(conn *amqp.Connection, handle func(ReservationCreatedEvent)) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}

	// Exclusive, auto-delete, broker-named queue: one per node, gone
	// when the node disconnects. Invalidation events are only useful
	// live, so nothing should queue up for a dead node.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", exchangeName, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var ev ReservationCreatedEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("invalidation-consumer: unmarshal failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		handle(ev)
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}
