package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// EventPublisher delivers entity events to a message broker. *mq.MQ
// satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Event describes a change to one record. Type is "<resource>.<action>",
// e.g. "orders.created", and doubles as the broker channel.
type Event struct {
	Type       string    `json:"type"`
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	ID         int       `json:"id"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newEvent(resource, action string, id int, data any) Event {
	return Event{
		Type:       resource + "." + action,
		Resource:   resource,
		Action:     action,
		ID:         id,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func publishEvent(ctx context.Context, publisher EventPublisher, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	attrs := map[string]string{
		"type":     event.Type,
		"resource": event.Resource,
	}
	_, err = publisher.Publish(ctx, event.Type, payload, attrs)
	return err
}
