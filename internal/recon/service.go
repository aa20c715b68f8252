package recon

import (
	"context"
	"encoding/json"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/azharstore/storefront-gateway/internal/events"
)

// OrphanLedger is the slice of the ledger the handler needs; *Ledger
// satisfies it.
type OrphanLedger interface {
	Record(ctx context.Context, customerID int64, sessionID, reason string) error
	Supersede(ctx context.Context, sessionID string) (int64, error)
}

// Deduper remembers processed event ids; *redisx.Dedup satisfies it.
type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// Service consumes the checkout topics and maintains the orphan ledger.
type Service struct {
	Ledger OrphanLedger
	Dedup  Deduper
	Logger *slog.Logger
}

// HandleCheckoutEvent is installed as the consumer handler for both checkout
// topics. Unknown event types are skipped and committed.
func (s *Service) HandleCheckoutEvent(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message: log and commit, redelivery will not fix it
		s.log().Error("undecodable event, skipping", "topic", m.Topic, "offset", m.Offset, "error", err)
		return nil
	}

	seen, err := s.Dedup.Seen(ctx, env.EventID)
	if err != nil {
		// the ledger writes stay idempotent, so apply anyway
		s.log().Warn("dedup check failed", "event_id", env.EventID, "error", err)
	}
	if seen {
		return nil
	}

	switch env.EventType {
	case events.EventCheckoutOrphaned:
		p, err := events.UnwrapPayload[events.CheckoutOrphanedPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.Ledger.Record(ctx, p.CustomerID, p.SessionID, p.Reason); err != nil {
			return err
		}
		s.log().Info("orphaned customer recorded",
			"customer_id", p.CustomerID, "session_id", p.SessionID)

	case events.EventCheckoutCompleted:
		p, err := events.UnwrapPayload[events.CheckoutCompletedPayload](env.Payload)
		if err != nil {
			return err
		}
		n, err := s.Ledger.Supersede(ctx, p.SessionID)
		if err != nil {
			return err
		}
		if n > 0 {
			s.log().Info("orphans superseded by completed checkout",
				"session_id", p.SessionID, "count", n)
		}

	default:
		return nil
	}

	if err := s.Dedup.Mark(ctx, env.EventID); err != nil {
		s.log().Warn("dedup mark failed", "event_id", env.EventID, "error", err)
	}
	return nil
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
