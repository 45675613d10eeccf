package service

import (
	"context"
	"encoding/json"
	"fmt"

	"helpapp/internal/platform/kafka/consumer"
	"helpapp/internal/sensor/models"
)

// KafkaHandler consumes sample batches published by a handset-side relay.
func (m *Monitor) KafkaHandler() consumer.Handler {
	return consumer.HandlerFunc(func(ctx context.Context, msg *consumer.Message) error {
		var batch models.Batch
		if err := json.Unmarshal(msg.Value, &batch); err != nil {
			return fmt.Errorf("decode sample batch: %w", err)
		}
		_, err := m.Ingest(ctx, "kafka", batch.Samples)
		return err
	})
}
