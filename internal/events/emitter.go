package events

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is what the emitter needs from the Kafka layer; *kafkax.Producer
// satisfies it.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Emitter wraps the two checkout topics behind typed emit calls. Either
// publisher may be nil (e.g. in tests or when Kafka is disabled), in which
// case the emit is skipped.
type Emitter struct {
	Completed Publisher
	Orphaned  Publisher
	Service   string
	Logger    *slog.Logger
}

func (e *Emitter) EmitCompleted(p CheckoutCompletedPayload) {
	if e == nil || e.Completed == nil {
		return
	}
	e.publish(e.Completed, EventCheckoutCompleted, p.SessionID, mustMarshal(p))
}

func (e *Emitter) EmitOrphaned(p CheckoutOrphanedPayload) {
	if e == nil || e.Orphaned == nil {
		return
	}
	e.publish(e.Orphaned, EventCheckoutOrphaned, p.SessionID, mustMarshal(p))
}

func (e *Emitter) publish(pub Publisher, eventType, sessionID string, payload []byte) {
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.Service,
		CorrelationID: sessionID,
		Payload:       payload,
	}
	pub.Publish(PartitionKey(sessionID), mustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if e.Logger != nil {
		e.Logger.Debug("event published", "type", eventType, "session_id", sessionID)
	}
}
