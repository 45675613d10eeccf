package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpapp/internal/platform/config"
)

func TestNewReturnsNilWithoutURL(t *testing.T) {
	client, err := New(config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewAndHealth(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(config.RedisConfig{
		URL:          "redis://" + mr.Addr(),
		PoolSize:     2,
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	assert.NoError(t, client.Health(context.Background()))
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(config.RedisConfig{URL: "://nope"})
	assert.Error(t, err)
}
