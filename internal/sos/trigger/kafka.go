package trigger

import (
	"context"
	"strings"

	"helpapp/internal/platform/kafka/consumer"
)

// KafkaHandler forwards records from the signal topic to the bus. The record
// value is the tag.
func (b *Bus) KafkaHandler() consumer.Handler {
	return consumer.HandlerFunc(func(ctx context.Context, msg *consumer.Message) error {
		return b.Publish(ctx, Signal{
			Tag:        strings.TrimSpace(string(msg.Value)),
			Source:     "kafka",
			ReceivedAt: msg.Timestamp,
		})
	})
}
