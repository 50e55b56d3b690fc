package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/campustix/campustix/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject)

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Notification subjects. Delivery is fire-and-forget: a lost message never
// invalidates the committed payment or registration it refers to.
const (
	TicketIssued          = "notify.ticket.issued"
	EntryConfirmed        = "notify.entry.confirmed"
	VerificationRequested = "notify.verification.requested"
)

type TicketIssuedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	UserEmail      string    `json:"user_email"`
	UserName       string    `json:"user_name"`
	EventTitle     string    `json:"event_title"`
	QRToken        string    `json:"qr_token"`
	IssuedAt       time.Time `json:"issued_at"`
}

type EntryConfirmedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	UserEmail      string    `json:"user_email"`
	UserName       string    `json:"user_name"`
	EventTitle     string    `json:"event_title"`
	CheckedInAt    time.Time `json:"checked_in_at"`
}

type VerificationRequestedEvent struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}
