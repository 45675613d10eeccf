// Package tracer is a small tracing abstraction over OpenTelemetry.
//
// Services depend on the Tracer interface so tests can use NewNoop and
// production wiring can use NewOTel with the global tracer provider.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span. The returned context carries it to child operations.
	//
	// Example:
	//   ctx, span := tracer.Start(ctx, tracer.SpanDispatch,
	//       tracer.String(tracer.AttrOrigin, "button"),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashPhoneNumber returns a short SHA-256 prefix of a phone number so traces
// can correlate recipients without carrying the number itself.
func HashPhoneNumber(number string) string {
	if number == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(number))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanDispatch = "sos.dispatch"
	SpanLocate   = "sos.locate"
	SpanSend     = "sos.send"
)

// Attribute keys.
const (
	AttrOrigin     = "sos.origin"
	AttrDispatchID = "sos.dispatch_id"
	AttrOutcome    = "sos.outcome"
	AttrBranch     = "sos.branch"
	AttrRecipients = "sos.recipients"
	AttrSent       = "sos.sent"
	AttrFailed     = "sos.failed"
	AttrRecipient  = "sms.recipient_hash"
	AttrLocation   = "location.result"
)

// Event names.
const (
	EventPermissionDenied = "permission.denied"
	EventCoalesced        = "dispatch.coalesced"
)
