package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"helpapp/internal/sensor/models"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// spike is a reading of about 3g along one axis.
func spike(offset time.Duration) models.Sample {
	return models.Sample{Z: 3 * models.StandardGravity, At: t0.Add(offset)}
}

func rest(offset time.Duration) models.Sample {
	return models.Sample{Z: models.StandardGravity, At: t0.Add(offset)}
}

func TestGForce(t *testing.T) {
	assert.InDelta(t, 1.0, rest(0).GForce(), 1e-9)
	assert.InDelta(t, 5.0, models.Sample{X: 3 * models.StandardGravity, Y: 4 * models.StandardGravity}.GForce(), 1e-9)
}

func TestDetector(t *testing.T) {
	t.Run("three spaced shakes complete a gesture", func(t *testing.T) {
		d := NewDetector(DefaultThresholdG, DefaultShakeCount)
		_, g1 := d.Observe(spike(0))
		_, g2 := d.Observe(spike(600 * time.Millisecond))
		_, g3 := d.Observe(spike(1200 * time.Millisecond))
		assert.False(t, g1)
		assert.False(t, g2)
		assert.True(t, g3)
	})

	t.Run("readings under the threshold are ignored", func(t *testing.T) {
		d := NewDetector(DefaultThresholdG, DefaultShakeCount)
		for i := range 10 {
			shake, gesture := d.Observe(rest(time.Duration(i) * time.Second))
			assert.False(t, shake)
			assert.False(t, gesture)
		}
	})

	t.Run("spikes closer than the debounce gap count once", func(t *testing.T) {
		d := NewDetector(DefaultThresholdG, DefaultShakeCount)
		d.Observe(spike(0))
		shake, _ := d.Observe(spike(100 * time.Millisecond))
		assert.False(t, shake)
		_, gesture := d.Observe(spike(600 * time.Millisecond))
		assert.False(t, gesture, "only two shakes counted so far")
	})

	t.Run("a long pause restarts the count", func(t *testing.T) {
		d := NewDetector(DefaultThresholdG, DefaultShakeCount)
		d.Observe(spike(0))
		d.Observe(spike(time.Second))
		_, gesture := d.Observe(spike(5 * time.Second))
		assert.False(t, gesture)
		d.Observe(spike(6 * time.Second))
		_, gesture = d.Observe(spike(7 * time.Second))
		assert.True(t, gesture)
	})

	t.Run("count resets after a gesture", func(t *testing.T) {
		d := NewDetector(DefaultThresholdG, 2)
		d.Observe(spike(0))
		_, gesture := d.Observe(spike(time.Second))
		assert.True(t, gesture)
		_, gesture = d.Observe(spike(2 * time.Second))
		assert.False(t, gesture)
	})

	t.Run("invalid settings fall back to defaults", func(t *testing.T) {
		d := NewDetector(0, -1)
		assert.Equal(t, DefaultThresholdG, d.threshold)
		assert.Equal(t, DefaultShakeCount, d.count)
	})
}
