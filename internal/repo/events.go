package repo

import (
	"context"
	"fmt"

	"github.com/noah-isme/backend-reward/internal/events"
)

// Events persists domain events.
type Events struct {
	Pool Pool
}

// InsertDomainEvent implements events.Store.
func (r Events) InsertDomainEvent(ctx context.Context, topic, aggregateID string, payload []byte) (events.Event, error) {
	var ev events.Event
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO domain_events (topic, aggregate_id, payload)
		VALUES ($1, $2, $3)
		RETURNING id, topic, aggregate_id, payload, occurred_at`,
		topic, aggregateID, payload,
	).Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &ev.OccurredAt)
	if err != nil {
		return events.Event{}, fmt.Errorf("insert domain event: %w", err)
	}
	return ev, nil
}
