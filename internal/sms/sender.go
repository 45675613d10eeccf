// Package sms hands outgoing text messages to a transport. Delivery is
// fire-and-forget: a nil error means the transport accepted the message,
// not that the handset on the other end received it.
package sms

import (
	"context"
	"log/slog"
	"time"

	id "helpapp/pkg/domain"
	"helpapp/pkg/requestcontext"
)

// Message is one text addressed to one number.
type Message struct {
	DispatchID id.DispatchID
	To         string
	Body       string
}

// LogSender writes messages to the log instead of a carrier. Used in
// development and whenever no gateway is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "sms sent",
		"dispatch_id", msg.DispatchID.String(),
		"to", msg.To,
		"body", msg.Body,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// record is the outbox wire format consumed by the SMS gateway.
type record struct {
	DispatchID string    `json:"dispatch_id"`
	To         string    `json:"to"`
	Body       string    `json:"body"`
	QueuedAt   time.Time `json:"queued_at"`
}
