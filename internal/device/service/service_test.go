package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"helpapp/internal/device/models"
	"helpapp/internal/device/service/mocks"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/requestcontext"
)

type DeviceServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	service *Service
	ctx     context.Context
}

func TestDeviceServiceSuite(t *testing.T) {
	suite.Run(t, new(DeviceServiceSuite))
}

func (s *DeviceServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.service = NewService(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.ctx = context.Background()
}

func (s *DeviceServiceSuite) TestCapabilities() {
	s.Run("reads reported state", func() {
		s.store.EXPECT().Load(gomock.Any()).Return(&models.State{
			LocationPermission: true,
			GPSEnabled:         true,
		}, nil).Times(3)

		s.True(s.service.LocationPermitted(s.ctx))
		s.False(s.service.SMSPermitted(s.ctx))
		s.True(s.service.ProviderEnabled(s.ctx))
	})

	s.Run("store failure denies", func() {
		s.store.EXPECT().Load(gomock.Any()).Return(nil, errors.New("redis down")).Times(3)

		s.False(s.service.LocationPermitted(s.ctx))
		s.False(s.service.SMSPermitted(s.ctx))
		s.False(s.service.ProviderEnabled(s.ctx))
	})
}

func (s *DeviceServiceSuite) TestLastKnown() {
	s.Run("no fix yet", func() {
		s.store.EXPECT().Load(gomock.Any()).Return(&models.State{LocationPermission: true}, nil)
		fix, err := s.service.LastKnown(s.ctx)
		s.Require().NoError(err)
		s.Nil(fix)
	})

	s.Run("store failure is unavailable", func() {
		s.store.EXPECT().Load(gomock.Any()).Return(nil, errors.New("timeout"))
		_, err := s.service.LastKnown(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *DeviceServiceSuite) TestRecordFix() {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, at)

	s.Run("stores validated fix", func() {
		s.store.EXPECT().SetFix(gomock.Any(), models.Fix{Lat: 12.34, Lon: 56.78, At: at}).Return(nil)
		fix, err := s.service.RecordFix(ctx, 12.34, 56.78)
		s.Require().NoError(err)
		s.Equal(at, fix.At)
	})

	s.Run("out of range never stored", func() {
		_, err := s.service.RecordFix(ctx, 91, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *DeviceServiceSuite) TestSetters() {
	s.store.EXPECT().SetPermissions(gomock.Any(), true, true).Return(nil)
	s.Require().NoError(s.service.SetPermissions(s.ctx, true, true))

	s.store.EXPECT().SetProviders(gomock.Any(), false, false).Return(errors.New("boom"))
	err := s.service.SetProviders(s.ctx, false, false)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
