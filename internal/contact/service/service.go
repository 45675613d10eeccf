package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"helpapp/internal/contact/models"
	"helpapp/internal/platform/metrics"
	id "helpapp/pkg/domain"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/platform/sentinel"
	"helpapp/pkg/requestcontext"
)

// Store defines the persistence interface for contacts.
// Error Contract:
// - Insert returns sentinel.ErrLimitReached when the list is full
// - Delete returns sentinel.ErrNotFound when the contact does not exist
type Store interface {
	Insert(ctx context.Context, c *models.Contact, limit int) error
	Delete(ctx context.Context, contactID id.ContactID) error
	List(ctx context.Context) ([]*models.Contact, error)
}

// Notifier shows a message to the user.
type Notifier interface {
	Alert(ctx context.Context, message string)
}

type Option func(*Service)

// Service manages the emergency contact list.
type Service struct {
	store    Store
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu      sync.Mutex
	subs    map[int]chan []*models.Contact
	nextSub int
}

func NewService(store Store, notifier Notifier, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		subs:     make(map[int]chan []*models.Contact),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Add stores a manually entered contact.
func (s *Service) Add(ctx context.Context, entry models.Entry) (*models.Contact, error) {
	c, err := s.insert(ctx, entry, models.SourceManual)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeLimitExceeded) {
			s.rejected(ctx)
		}
		return nil, err
	}
	s.changed(ctx)
	return c, nil
}

// Import stores contacts chosen from the device address book. Entries past
// the limit are counted as rejected and the user is alerted once.
func (s *Service) Import(ctx context.Context, entries []models.Entry) (*models.ImportResult, error) {
	if len(entries) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no contacts to import")
	}
	result := &models.ImportResult{}
	for _, entry := range entries {
		c, err := s.insert(ctx, entry, models.SourceImport)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeLimitExceeded) {
				result.Rejected++
				continue
			}
			if len(result.Added) > 0 {
				s.changed(ctx)
			}
			return nil, err
		}
		result.Added = append(result.Added, c)
	}
	if result.Rejected > 0 {
		s.rejected(ctx)
	}
	if len(result.Added) > 0 {
		s.changed(ctx)
	}
	return result, nil
}

func (s *Service) insert(ctx context.Context, entry models.Entry, source models.Source) (*models.Contact, error) {
	c, err := models.NewContact(entry, source, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, c, models.MaxContacts); err != nil {
		if errors.Is(err, sentinel.ErrLimitReached) {
			return nil, dErrors.New(dErrors.CodeLimitExceeded, models.LimitReachedMessage)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contact")
	}
	s.logger.InfoContext(ctx, "contact added",
		"contact_id", c.ID.String(),
		"source", c.Source.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return c, nil
}

// Remove deletes a contact.
func (s *Service) Remove(ctx context.Context, contactID id.ContactID) error {
	if err := s.store.Delete(ctx, contactID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "contact not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete contact")
	}
	s.logger.InfoContext(ctx, "contact removed",
		"contact_id", contactID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.changed(ctx)
	return nil
}

// List returns the stored contacts in the order they were added.
func (s *Service) List(ctx context.Context) ([]*models.Contact, error) {
	contacts, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contacts")
	}
	return contacts, nil
}

// Subscribe returns a channel that receives the full list after every change,
// and a function that ends the subscription. Slow subscribers only see the
// latest list.
func (s *Service) Subscribe() (<-chan []*models.Contact, func()) {
	ch := make(chan []*models.Contact, 1)
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, key)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Service) rejected(ctx context.Context) {
	s.logger.WarnContext(ctx, "contact limit reached",
		"limit", models.MaxContacts,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementContactRejections()
	}
	if s.notifier != nil {
		s.notifier.Alert(ctx, models.LimitReachedMessage)
	}
}

func (s *Service) changed(ctx context.Context) {
	contacts, err := s.store.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to reload contacts after change", "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.SetContactsStored(len(contacts))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- contacts:
		default:
			// drop the stale list the subscriber has not read yet
			select {
			case <-ch:
			default:
			}
			ch <- contacts
		}
	}
}
