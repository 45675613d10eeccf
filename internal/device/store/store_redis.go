package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"helpapp/internal/device/models"
)

const (
	// deviceKeyPrefix namespaces the hash that holds one handset's state.
	deviceKeyPrefix = "device:"

	fieldLocationPermission = "location_permission"
	fieldSMSPermission      = "sms_permission"
	fieldGPS                = "gps_enabled"
	fieldNetwork            = "network_enabled"
	fieldFixLat             = "fix_lat"
	fieldFixLon             = "fix_lon"
	fieldFixAt              = "fix_at" // Unix nano
)

// RedisStore keeps device state in a redis hash so it survives restarts and
// can be written by a sidecar on the handset.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedis constructs a redis-backed store for the named device.
func NewRedis(client redis.Cmdable, device string) *RedisStore {
	return &RedisStore{client: client, key: deviceKeyPrefix + device}
}

func (s *RedisStore) Load(ctx context.Context) (*models.State, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load device state: %w", err)
	}

	state := &models.State{
		LocationPermission: fields[fieldLocationPermission] == "1",
		SMSPermission:      fields[fieldSMSPermission] == "1",
		GPSEnabled:         fields[fieldGPS] == "1",
		NetworkEnabled:     fields[fieldNetwork] == "1",
	}

	if rawLat, ok := fields[fieldFixLat]; ok {
		fix, err := parseFix(rawLat, fields[fieldFixLon], fields[fieldFixAt])
		if err != nil {
			return nil, fmt.Errorf("decode device fix: %w", err)
		}
		state.LastFix = fix
	}
	return state, nil
}

func (s *RedisStore) SetPermissions(ctx context.Context, location, sms bool) error {
	if err := s.client.HSet(ctx, s.key,
		fieldLocationPermission, flag(location),
		fieldSMSPermission, flag(sms),
	).Err(); err != nil {
		return fmt.Errorf("save permissions: %w", err)
	}
	return nil
}

func (s *RedisStore) SetProviders(ctx context.Context, gps, network bool) error {
	if err := s.client.HSet(ctx, s.key,
		fieldGPS, flag(gps),
		fieldNetwork, flag(network),
	).Err(); err != nil {
		return fmt.Errorf("save providers: %w", err)
	}
	return nil
}

func (s *RedisStore) SetFix(ctx context.Context, fix models.Fix) error {
	if err := s.client.HSet(ctx, s.key,
		fieldFixLat, strconv.FormatFloat(fix.Lat, 'f', -1, 64),
		fieldFixLon, strconv.FormatFloat(fix.Lon, 'f', -1, 64),
		fieldFixAt, strconv.FormatInt(fix.At.UnixNano(), 10),
	).Err(); err != nil {
		return fmt.Errorf("save fix: %w", err)
	}
	return nil
}

func parseFix(rawLat, rawLon, rawAt string) (*models.Fix, error) {
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return nil, err
	}
	at, err := strconv.ParseInt(rawAt, 10, 64)
	if err != nil {
		return nil, err
	}
	return &models.Fix{Lat: lat, Lon: lon, At: time.Unix(0, at).UTC()}, nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
