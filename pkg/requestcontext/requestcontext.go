// Package requestcontext carries per-request values (request ID, clock) through context.
package requestcontext

import (
	"context"
	"time"

	id "helpapp/pkg/domain"
)

type requestIDKey struct{}
type nowKey struct{}
type deviceIDKey struct{}

// WithRequestID stores the request ID on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithTime pins the request clock. Tests use it to freeze time.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, nowKey{}, t)
}

// Now returns the pinned request time, or the wall clock when none is set.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(nowKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithDeviceID stores the authenticated device on the context.
func WithDeviceID(ctx context.Context, deviceID id.DeviceID) context.Context {
	return context.WithValue(ctx, deviceIDKey{}, deviceID)
}

// DeviceID returns the authenticated device, or the empty ID for anonymous requests.
func DeviceID(ctx context.Context) id.DeviceID {
	if d, ok := ctx.Value(deviceIDKey{}).(id.DeviceID); ok {
		return d
	}
	return ""
}
