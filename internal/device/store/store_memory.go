package store

import (
	"context"
	"sync"

	"helpapp/internal/device/models"
)

// InMemoryStore keeps device state in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	state models.State
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Load(_ context.Context) (*models.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := s.state
	if s.state.LastFix != nil {
		fix := *s.state.LastFix
		state.LastFix = &fix
	}
	return &state, nil
}

func (s *InMemoryStore) SetPermissions(_ context.Context, location, sms bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LocationPermission = location
	s.state.SMSPermission = sms
	return nil
}

func (s *InMemoryStore) SetProviders(_ context.Context, gps, network bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GPSEnabled = gps
	s.state.NetworkEnabled = network
	return nil
}

func (s *InMemoryStore) SetFix(_ context.Context, fix models.Fix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastFix = &fix
	return nil
}
