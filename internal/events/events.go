package events

import (
	"encoding/json"
	"time"
)

const (
	EventCheckoutCompleted = "CheckoutCompleted"
	EventCheckoutOrphaned  = "CheckoutOrphaned"
)

// Envelope is the versioned wrapper every checkout event travels in.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // session id
	Payload       json.RawMessage `json:"payload"`
}

type LineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutCompletedPayload announces that a cart became a persisted order.
type CheckoutCompletedPayload struct {
	SessionID  string     `json:"session_id"`
	OrderID    int64      `json:"order_id"`
	CustomerID int64      `json:"customer_id"`
	Items      []LineItem `json:"items"`
	TotalCents int64      `json:"total_cents"`
}

// CheckoutOrphanedPayload records a customer created upstream whose order
// submission then failed. Nothing rolls the customer back; the reconciler
// ledgers it for operator cleanup.
type CheckoutOrphanedPayload struct {
	SessionID  string `json:"session_id"`
	CustomerID int64  `json:"customer_id"`
	Reason     string `json:"reason"`
}
