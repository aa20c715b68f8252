package events

const (
	TopicCheckoutCompleted = "checkout.completed"
	TopicCheckoutOrphaned  = "checkout.orphaned"
)

// Partition key = session id, so one shopper's events stay ordered.
func PartitionKey(sessionID string) []byte { return []byte(sessionID) }
