package events

// Topic constants for domain events emitted by the platform.
const (
	TopicTransactionCalculated = "transaction.calculated"
	TopicTransactionRejected   = "transaction.rejected"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicTransactionCalculated,
		TopicTransactionRejected,
	}
}
