package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"helpapp/internal/platform/kafka/consumer"
	"helpapp/internal/platform/metrics"
	"helpapp/internal/sensor/models"
	sosmodels "helpapp/internal/sos/models"
	"helpapp/internal/sos/trigger"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/platform/sentinel"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, sig trigger.Signal) error {
	return m.Called(ctx, sig).Error(0)
}

func newMonitor(bus Publisher, m *metrics.Metrics) *Monitor {
	return NewMonitor(NewDetector(DefaultThresholdG, DefaultShakeCount), bus,
		slog.New(slog.NewTextHandler(io.Discard, nil)), WithMetrics(m))
}

func gesture() []models.Sample {
	return []models.Sample{
		spike(0), rest(200 * time.Millisecond),
		spike(600 * time.Millisecond), rest(800 * time.Millisecond),
		spike(1200 * time.Millisecond),
	}
}

func TestMonitorIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("a gesture publishes sendSOS", func(t *testing.T) {
		bus := new(mockPublisher)
		bus.On("Publish", mock.Anything, mock.MatchedBy(func(sig trigger.Signal) bool {
			return sig.Tag == sosmodels.SignalSendSOS && sig.Source == "http" && sig.ReceivedAt.Equal(t0.Add(1200*time.Millisecond))
		})).Return(nil).Once()
		m := metrics.New(prometheus.NewRegistry())

		res, err := newMonitor(bus, m).Ingest(ctx, "http", gesture())
		require.NoError(t, err)
		assert.Equal(t, &Result{Processed: 5, Shakes: 3, Triggered: 1}, res)
		assert.InDelta(t, 3, testutil.ToFloat64(m.ShakesDetected), 0)
		bus.AssertExpectations(t)
	})

	t.Run("gesture split across batches still fires", func(t *testing.T) {
		bus := new(mockPublisher)
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
		mon := newMonitor(bus, nil)

		samples := gesture()
		res, err := mon.Ingest(ctx, "kafka", samples[:3])
		require.NoError(t, err)
		assert.Zero(t, res.Triggered)
		res, err = mon.Ingest(ctx, "kafka", samples[3:])
		require.NoError(t, err)
		assert.Equal(t, 1, res.Triggered)
	})

	t.Run("oversized batch rejected", func(t *testing.T) {
		_, err := newMonitor(new(mockPublisher), nil).Ingest(ctx, "http", make([]models.Sample, 501))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("closed bus surfaces as unavailable", func(t *testing.T) {
		bus := new(mockPublisher)
		bus.On("Publish", mock.Anything, mock.Anything).Return(sentinel.ErrClosed)
		_, err := newMonitor(bus, nil).Ingest(ctx, "http", gesture())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func TestMonitorKafkaHandler(t *testing.T) {
	bus := new(mockPublisher)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
	handler := newMonitor(bus, nil).KafkaHandler()

	raw, err := json.Marshal(models.Batch{Samples: gesture()})
	require.NoError(t, err)
	require.NoError(t, handler.Handle(context.Background(), &consumer.Message{Value: raw}))
	bus.AssertExpectations(t)

	assert.Error(t, handler.Handle(context.Background(), &consumer.Message{Value: []byte("{")}))
}
