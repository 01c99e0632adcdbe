package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestNewPublishing(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	msg, err := newPublishing(map[string]any{"booking_id": 7}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent || !msg.Timestamp.Equal(now) {
		t.Fatalf("unexpected publishing: %+v", msg)
	}
	if msg.MessageId == "" {
		t.Fatalf("expected message id")
	}
	var body map[string]any
	if err := json.Unmarshal(msg.Body, &body); err != nil || body["booking_id"] != 7.0 {
		t.Fatalf("unexpected body: %s err=%v", msg.Body, err)
	}

	if _, err := newPublishing(make(chan int), now); err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := (NoopPublisher{}).PublishJSON(context.Background(), "booking.created", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
