package service

import (
	"context"
	"log/slog"

	"helpapp/internal/device/models"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/requestcontext"
)

// Store persists the handset's reported capabilities.
type Store interface {
	Load(ctx context.Context) (*models.State, error)
	SetPermissions(ctx context.Context, location, sms bool) error
	SetProviders(ctx context.Context, gps, network bool) error
	SetFix(ctx context.Context, fix models.Fix) error
}

// Service answers capability questions for the dispatcher and records what
// the handset reports. Reads fail closed: if state cannot be loaded the
// permission or provider is treated as absent.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) load(ctx context.Context) *models.State {
	state, err := s.store.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load device state",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return &models.State{}
	}
	return state
}

func (s *Service) LocationPermitted(ctx context.Context) bool {
	return s.load(ctx).LocationPermission
}

func (s *Service) SMSPermitted(ctx context.Context) bool {
	return s.load(ctx).SMSPermission
}

// ProviderEnabled reports whether GPS or network location is switched on.
func (s *Service) ProviderEnabled(ctx context.Context) bool {
	return s.load(ctx).ProviderEnabled()
}

// LastKnown returns the most recent fix, or nil when none was ever reported.
// It is a single read: no waiting for a fresh fix and no retry.
func (s *Service) LastKnown(ctx context.Context) (*models.Fix, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "location unavailable")
	}
	return state.LastFix, nil
}

func (s *Service) SetPermissions(ctx context.Context, location, sms bool) error {
	if err := s.store.SetPermissions(ctx, location, sms); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save permissions")
	}
	s.logger.InfoContext(ctx, "device permissions updated",
		"location_permission", location,
		"sms_permission", sms,
	)
	return nil
}

func (s *Service) SetProviders(ctx context.Context, gps, network bool) error {
	if err := s.store.SetProviders(ctx, gps, network); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save providers")
	}
	s.logger.InfoContext(ctx, "location providers updated",
		"gps_enabled", gps,
		"network_enabled", network,
	)
	return nil
}

// RecordFix stores a new last-known position.
func (s *Service) RecordFix(ctx context.Context, lat, lon float64) (*models.Fix, error) {
	fix, err := models.NewFix(lat, lon, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.SetFix(ctx, *fix); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save location")
	}
	return fix, nil
}

// Snapshot returns the full reported state.
func (s *Service) Snapshot(ctx context.Context) (*models.State, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load device state")
	}
	return state, nil
}
