package models

import (
	"time"

	dErrors "helpapp/pkg/domain-errors"
)

// Fix is a position reported by the handset.
type Fix struct {
	Lat float64   `json:"lat"`
	Lon float64   `json:"lon"`
	At  time.Time `json:"at"`
}

// NewFix validates coordinates.
func NewFix(lat, lon float64, at time.Time) (*Fix, error) {
	if lat < -90 || lat > 90 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "lat must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "lon must be between -180 and 180")
	}
	return &Fix{Lat: lat, Lon: lon, At: at}, nil
}

// State is everything the handset last told us about its capabilities.
// The zero value denies both permissions and has no provider and no fix.
type State struct {
	LocationPermission bool `json:"location_permission"`
	SMSPermission      bool `json:"sms_permission"`
	GPSEnabled         bool `json:"gps_enabled"`
	NetworkEnabled     bool `json:"network_enabled"`
	LastFix            *Fix `json:"last_fix,omitempty"`
}

// ProviderEnabled reports whether any location provider is on.
func (s *State) ProviderEnabled() bool {
	return s.GPSEnabled || s.NetworkEnabled
}
