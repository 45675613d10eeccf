package service

import (
	"context"
	"log/slog"
	"sync"

	"helpapp/internal/notice/models"
	id "helpapp/pkg/domain"
	"helpapp/pkg/requestcontext"
)

// DefaultCapacity is how many notices the feed keeps.
const DefaultCapacity = 50

// Feed is a bounded, newest-wins log of user-facing notices. It stands in
// for dialogs and toasts: clients poll it and render what they find.
type Feed struct {
	mu     sync.RWMutex
	buf    []models.Notice
	next   int
	full   bool
	logger *slog.Logger
}

type Option func(*Feed)

// WithCapacity overrides the number of retained notices.
func WithCapacity(n int) Option {
	return func(f *Feed) {
		if n > 0 {
			f.buf = make([]models.Notice, n)
		}
	}
}

func NewFeed(logger *slog.Logger, opts ...Option) *Feed {
	f := &Feed{
		buf:    make([]models.Notice, DefaultCapacity),
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Alert records a message the user must acknowledge.
func (f *Feed) Alert(ctx context.Context, message string) {
	f.push(ctx, models.KindAlert, message)
}

// Confirm records a transient confirmation.
func (f *Feed) Confirm(ctx context.Context, message string) {
	f.push(ctx, models.KindConfirm, message)
}

func (f *Feed) push(ctx context.Context, kind models.Kind, message string) {
	n := models.Notice{
		ID:        id.NewNoticeID(),
		Kind:      kind,
		Message:   message,
		CreatedAt: requestcontext.Now(ctx),
	}

	f.mu.Lock()
	f.buf[f.next] = n
	f.next = (f.next + 1) % len(f.buf)
	if f.next == 0 {
		f.full = true
	}
	f.mu.Unlock()

	f.logger.InfoContext(ctx, "notice shown",
		"kind", string(kind),
		"message", message,
		"notice_id", n.ID.String(),
	)
}

// Recent returns up to limit notices, newest first. A non-positive limit
// returns everything retained.
func (f *Feed) Recent(limit int) []models.Notice {
	f.mu.RLock()
	defer f.mu.RUnlock()

	size := f.next
	if f.full {
		size = len(f.buf)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]models.Notice, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.buf)) % len(f.buf)
		out = append(out, f.buf[idx])
	}
	return out
}
