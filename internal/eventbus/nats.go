package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Subjects published by the service.
const (
	SubjectGenerationCompleted = "codemaster.generation.completed"
	SubjectActivationChanged   = "codemaster.activation.changed"
)

// Event wraps the payload with metadata
type Event struct {
	ID        string          `json:"id"`
	Subject   string          `json:"subject"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher fans service events out over core NATS. A nil *Publisher is a
// valid no-op, so callers never need to check whether events are enabled.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials natsURL and returns a publisher bound to it.
func Connect(natsURL string) (*Publisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("codemaster-ai"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("eventbus: connect: %w", err)
	}
	return &Publisher{conn: nc}, nil
}

// Publish marshals data into an Event and publishes it on subject.
// Delivery is fire-and-forget.
func (p *Publisher) Publish(subject string, data any) error {
	if p == nil || p.conn == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("eventbus: marshal payload: %w", err)
	}

	ev, err := json.Marshal(Event{
		ID:        uuid.NewString(),
		Subject:   subject,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("eventbus: marshal event: %w", err)
	}

	return p.conn.Publish(subject, ev)
}

// Ping reports whether the connection is usable.
func (p *Publisher) Ping() error {
	if p == nil || p.conn == nil {
		return nats.ErrConnectionClosed
	}
	if !p.conn.IsConnected() {
		return fmt.Errorf("eventbus: status %s", p.conn.Status())
	}
	return nil
}

// Close flushes pending publishes and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Flush()
	p.conn.Close()
}
