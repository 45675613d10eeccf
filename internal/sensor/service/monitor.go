package service

import (
	"context"
	"log/slog"

	"helpapp/internal/platform/metrics"
	"helpapp/internal/sensor/models"
	sosmodels "helpapp/internal/sos/models"
	"helpapp/internal/sos/trigger"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/validation"
)

// Publisher puts a signal on the trigger bus.
type Publisher interface {
	Publish(ctx context.Context, sig trigger.Signal) error
}

type Option func(*Monitor)

func WithMetrics(m *metrics.Metrics) Option {
	return func(mon *Monitor) {
		mon.metrics = m
	}
}

// Monitor turns accelerometer uploads into sendSOS signals.
type Monitor struct {
	detector *Detector
	bus      Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewMonitor(detector *Detector, bus Publisher, logger *slog.Logger, opts ...Option) *Monitor {
	m := &Monitor{detector: detector, bus: bus, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result summarises one batch.
type Result struct {
	Processed int `json:"processed"`
	Shakes    int `json:"shakes"`
	Triggered int `json:"triggered"`
}

// Ingest runs samples through the detector in order and publishes one
// sendSOS signal per completed gesture.
func (m *Monitor) Ingest(ctx context.Context, source string, samples []models.Sample) (*Result, error) {
	if len(samples) > validation.MaxSamplesPerBatch {
		return nil, dErrors.New(dErrors.CodeBadRequest, "too many samples in one batch")
	}

	res := &Result{}
	for _, s := range samples {
		res.Processed++
		shake, gesture := m.detector.Observe(s)
		if shake {
			res.Shakes++
			if m.metrics != nil {
				m.metrics.IncrementShakes()
			}
		}
		if !gesture {
			continue
		}

		m.logger.InfoContext(ctx, "shake gesture detected", "source", source, "at", s.At)
		if err := m.bus.Publish(ctx, trigger.Signal{
			Tag:        sosmodels.SignalSendSOS,
			Source:     source,
			ReceivedAt: s.At,
		}); err != nil {
			return res, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to publish sos signal")
		}
		res.Triggered++
	}
	return res, nil
}
