package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-reward/internal/events"
)

type stubStore struct {
	lastTopic     string
	lastAggregate string
	lastPayload   []byte
}

func (s *stubStore) InsertDomainEvent(_ context.Context, topic, aggregateID string, payload []byte) (events.Event, error) {
	s.lastTopic = topic
	s.lastAggregate = aggregateID
	s.lastPayload = payload
	return events.Event{
		ID:          uuid.NewString(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}, nil
}

type captureNotifier struct {
	events []events.Event
}

func (c *captureNotifier) Notify(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return nil
}

func TestEmitPersistsEvent(t *testing.T) {
	store := &stubStore{}
	notifier := &captureNotifier{}
	bus := events.Bus{
		Store:     store,
		Notifiers: []events.Notifier{notifier},
	}

	payload := map[string]any{"customerId": "CUST001", "pointsEarned": 30}
	event, err := bus.Emit(context.Background(), events.TopicTransactionCalculated, "CUST001", payload)
	require.NoError(t, err)
	require.Equal(t, events.TopicTransactionCalculated, store.lastTopic)
	require.Equal(t, "CUST001", store.lastAggregate)
	require.JSONEq(t, `{"customerId":"CUST001","pointsEarned":30}`, string(store.lastPayload))
	require.Len(t, notifier.events, 1)
	require.Equal(t, event.ID, notifier.events[0].ID)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	require.Equal(t, "CUST001", decoded["customerId"])
}

func TestEmitRequiresTopicAndAggregate(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), "", "CUST001", nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), events.TopicTransactionCalculated, " ", nil)
	require.Error(t, err)
}

func TestEmitRejectsInvalidJSONPayload(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), events.TopicTransactionCalculated, "CUST001", []byte("{not json"))
	require.Error(t, err)
}
