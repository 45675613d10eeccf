package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"helpapp/internal/contact/models"
	"helpapp/internal/contact/service/mocks"
	"helpapp/internal/contact/store"
	"helpapp/internal/platform/metrics"
	id "helpapp/pkg/domain"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/platform/sentinel"
	"helpapp/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	notifier *mocks.MockNotifier
	metrics  *metrics.Metrics
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.store, s.notifier, logger, WithMetrics(s.metrics))
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestAdd() {
	s.Run("stores a valid contact and publishes the list", func() {
		updates, cancel := s.service.Subscribe()
		defer cancel()

		var stored *models.Contact
		s.store.EXPECT().Insert(gomock.Any(), gomock.Any(), models.MaxContacts).
			DoAndReturn(func(_ context.Context, c *models.Contact, _ int) error {
				stored = c
				return nil
			})
		s.store.EXPECT().List(gomock.Any()).DoAndReturn(func(context.Context) ([]*models.Contact, error) {
			return []*models.Contact{stored}, nil
		})

		c, err := s.service.Add(s.ctx, models.Entry{Name: "Mom", Number: "+15550001"})
		s.Require().NoError(err)
		s.Equal("Mom", c.Name)
		s.Equal(models.SourceManual, c.Source)
		s.Equal(requestcontext.Now(s.ctx), c.CreatedAt)

		select {
		case list := <-updates:
			s.Require().Len(list, 1)
			s.Equal(c.ID, list[0].ID)
		default:
			s.Fail("expected a list-changed notification")
		}
		s.InDelta(1, testutil.ToFloat64(s.metrics.ContactsStored), 0)
	})

	s.Run("fourth contact is refused with one alert and no mutation", func() {
		s.store.EXPECT().Insert(gomock.Any(), gomock.Any(), models.MaxContacts).Return(sentinel.ErrLimitReached)
		s.notifier.EXPECT().Alert(gomock.Any(), models.LimitReachedMessage).Times(1)

		_, err := s.service.Add(s.ctx, models.Entry{Name: "Bro", Number: "+15550004"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeLimitExceeded))
		s.InDelta(1, testutil.ToFloat64(s.metrics.ContactRejections), 0)
	})

	s.Run("invalid entry never reaches the store", func() {
		_, err := s.service.Add(s.ctx, models.Entry{Name: "", Number: "+15550004"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().Insert(gomock.Any(), gomock.Any(), models.MaxContacts).Return(errors.New("db down"))
		_, err := s.service.Add(s.ctx, models.Entry{Name: "Dad", Number: "5550002"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestImport() {
	s.Run("entries past the limit are rejected and alerted once", func() {
		gomock.InOrder(
			s.store.EXPECT().Insert(gomock.Any(), gomock.Any(), models.MaxContacts).Return(nil),
			s.store.EXPECT().Insert(gomock.Any(), gomock.Any(), models.MaxContacts).Return(sentinel.ErrLimitReached),
			s.store.EXPECT().Insert(gomock.Any(), gomock.Any(), models.MaxContacts).Return(sentinel.ErrLimitReached),
		)
		s.notifier.EXPECT().Alert(gomock.Any(), models.LimitReachedMessage).Times(1)
		s.store.EXPECT().List(gomock.Any()).Return(make([]*models.Contact, 3), nil)

		result, err := s.service.Import(s.ctx, []models.Entry{
			{Name: "Aunt", Number: "5550010"},
			{Name: "Uncle", Number: "5550011"},
			{Name: "Cousin", Number: "5550012"},
		})
		s.Require().NoError(err)
		s.Len(result.Added, 1)
		s.Equal(models.SourceImport, result.Added[0].Source)
		s.Equal(2, result.Rejected)
	})

	s.Run("empty import is a bad request", func() {
		_, err := s.service.Import(s.ctx, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestRemove() {
	s.Run("unknown contact", func() {
		contactID := id.NewContactID()
		s.store.EXPECT().Delete(gomock.Any(), contactID).Return(sentinel.ErrNotFound)
		err := s.service.Remove(s.ctx, contactID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("removed contact publishes the list", func() {
		contactID := id.NewContactID()
		s.store.EXPECT().Delete(gomock.Any(), contactID).Return(nil)
		s.store.EXPECT().List(gomock.Any()).Return(nil, nil)
		s.Require().NoError(s.service.Remove(s.ctx, contactID))
		s.InDelta(0, testutil.ToFloat64(s.metrics.ContactsStored), 0)
	})
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Alert(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

// The stored list never exceeds three entries whatever order adds and
// removes arrive in.
func TestContactListNeverExceedsLimit(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(store.New(), notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	var added []*models.Contact
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		c, err := svc.Add(ctx, models.Entry{Name: name, Number: "5550100"})
		if err == nil {
			added = append(added, c)
		}
		list, err := svc.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) > models.MaxContacts {
			t.Fatalf("list grew to %d", len(list))
		}
	}
	if len(added) != 3 || len(notifier.messages) != 2 {
		t.Fatalf("added=%d alerts=%d", len(added), len(notifier.messages))
	}

	if err := svc.Remove(ctx, added[1].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, models.Entry{Name: "F", Number: "5550101"}); err != nil {
		t.Fatalf("add after remove: %v", err)
	}
	list, _ := svc.List(ctx)
	if len(list) != models.MaxContacts {
		t.Fatalf("expected full list, got %d", len(list))
	}
}

func TestSubscribeCancel(t *testing.T) {
	svc := NewService(store.New(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	updates, cancel := svc.Subscribe()
	cancel()
	cancel()
	if _, open := <-updates; open {
		t.Fatal("channel should be closed after cancel")
	}
	// publishing after cancel must not panic
	if _, err := svc.Add(context.Background(), models.Entry{Name: "A", Number: "5550100"}); err != nil {
		t.Fatal(err)
	}
}
