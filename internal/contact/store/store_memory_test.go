package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"helpapp/internal/contact/models"
	id "helpapp/pkg/domain"
	"helpapp/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func newContact(t require.TestingT, name string) *models.Contact {
	c, err := models.NewContact(models.Entry{Name: name, Number: "+1555000" + fmt.Sprint(len(name))}, models.SourceManual, time.Now())
	require.NoError(t, err)
	return c
}

func (s *InMemoryStoreSuite) TestInsertRespectsLimit() {
	for _, name := range []string{"Mom", "Dad", "Sis"} {
		s.Require().NoError(s.store.Insert(s.ctx, newContact(s.T(), name), models.MaxContacts))
	}

	err := s.store.Insert(s.ctx, newContact(s.T(), "Bro"), models.MaxContacts)
	s.Require().ErrorIs(err, sentinel.ErrLimitReached)

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{"Mom", "Dad", "Sis"}, names(list))
}

func (s *InMemoryStoreSuite) TestDelete() {
	mom := newContact(s.T(), "Mom")
	dad := newContact(s.T(), "Dad")
	s.Require().NoError(s.store.Insert(s.ctx, mom, models.MaxContacts))
	s.Require().NoError(s.store.Insert(s.ctx, dad, models.MaxContacts))

	s.Run("removes only the given contact", func() {
		s.Require().NoError(s.store.Delete(s.ctx, mom.ID))
		list, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"Dad"}, names(list))
	})

	s.Run("unknown id is not found", func() {
		err := s.store.Delete(s.ctx, id.NewContactID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestListReturnsCopies() {
	s.Require().NoError(s.store.Insert(s.ctx, newContact(s.T(), "Mom"), models.MaxContacts))
	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	list[0].Name = "changed"

	again, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal("Mom", again[0].Name)
}

func TestInMemoryStoreConcurrentInsertNeverExceedsLimit(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	var accepted, rejected atomic.Int32
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := models.NewContact(models.Entry{Name: fmt.Sprintf("c%d", i), Number: "5550100"}, models.SourceManual, time.Now())
			require.NoError(t, err)
			err = store.Insert(ctx, c, models.MaxContacts)
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, sentinel.ErrLimitReached):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, models.MaxContacts)
	assert.Equal(t, int32(models.MaxContacts), accepted.Load())
	assert.Equal(t, int32(17), rejected.Load())
}

func names(list []*models.Contact) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}
