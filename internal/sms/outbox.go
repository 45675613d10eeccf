package sms

import (
	"context"
	"encoding/json"
	"fmt"

	"helpapp/internal/platform/kafka/producer"
	"helpapp/pkg/requestcontext"
)

// Producer publishes a record to kafka.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// OutboxSender queues each message on a kafka topic for an SMS gateway to
// deliver. Records are keyed by dispatch so one SOS stays on one partition.
type OutboxSender struct {
	producer Producer
	topic    string
}

func NewOutboxSender(p Producer, topic string) *OutboxSender {
	return &OutboxSender{producer: p, topic: topic}
}

func (s *OutboxSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(record{
		DispatchID: msg.DispatchID.String(),
		To:         msg.To,
		Body:       msg.Body,
		QueuedAt:   requestcontext.Now(ctx).UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode sms record: %w", err)
	}

	headers := map[string]string{"content-type": "application/json"}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		headers["request_id"] = reqID
	}

	return s.producer.Produce(ctx, &producer.Message{
		Topic:   s.topic,
		Key:     []byte(msg.DispatchID.String()),
		Value:   payload,
		Headers: headers,
	})
}
