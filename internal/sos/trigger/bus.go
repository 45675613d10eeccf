// Package trigger carries signals from background monitors to the SOS
// dispatcher over an in-process channel.
package trigger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"helpapp/internal/platform/metrics"
	"helpapp/internal/sos/models"
	"helpapp/pkg/platform/sentinel"
)

const defaultBuffer = 16

// Signal is one message from a monitor. Only the tag models.SignalSendSOS
// starts a dispatch.
type Signal struct {
	Tag        string
	Source     string
	ReceivedAt time.Time
}

// Dispatcher runs an SOS.
type Dispatcher interface {
	Dispatch(ctx context.Context, origin models.Origin) (*models.Report, error)
}

type Option func(*Bus)

func WithBuffer(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.buffer = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bus) {
		b.metrics = m
	}
}

// Bus owns the signal channel. Publishers send, Run receives and hands each
// SOS signal to the dispatcher on its own goroutine so a slow dispatch never
// blocks later signals.
type Bus struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	buffer     int

	signals chan Signal
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewBus(dispatcher Dispatcher, logger *slog.Logger, opts ...Option) *Bus {
	b := &Bus{
		dispatcher: dispatcher,
		logger:     logger,
		buffer:     defaultBuffer,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.signals = make(chan Signal, b.buffer)
	return b
}

// Publish queues a signal. It blocks while the buffer is full and fails with
// sentinel.ErrClosed once the bus has stopped.
func (b *Bus) Publish(ctx context.Context, sig Signal) error {
	if sig.ReceivedAt.IsZero() {
		sig.ReceivedAt = time.Now()
	}
	select {
	case <-b.done:
		return sentinel.ErrClosed
	default:
	}
	select {
	case b.signals <- sig:
		return nil
	case <-b.done:
		return sentinel.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run receives signals until ctx is cancelled, then waits for dispatches
// already started to finish. Signals still buffered at shutdown are dropped.
func (b *Bus) Run(ctx context.Context) error {
	defer func() {
		b.once.Do(func() { close(b.done) })
		b.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-b.signals:
			b.handle(ctx, sig)
		}
	}
}

func (b *Bus) handle(ctx context.Context, sig Signal) {
	fired := sig.Tag == models.SignalSendSOS
	if b.metrics != nil {
		b.metrics.IncrementSignal(sig.Source, fired)
	}
	if !fired {
		b.logger.DebugContext(ctx, "ignoring signal", "tag", sig.Tag, "source", sig.Source)
		return
	}

	b.logger.InfoContext(ctx, "sos signal received",
		"source", sig.Source,
		"received_at", sig.ReceivedAt,
	)

	dispatchCtx := context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if _, err := b.dispatcher.Dispatch(dispatchCtx, models.OriginSignal); err != nil {
			b.logger.ErrorContext(dispatchCtx, "signal-driven dispatch failed",
				"source", sig.Source,
				"error", err,
			)
		}
	}()
}
