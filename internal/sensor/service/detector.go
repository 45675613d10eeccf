package service

import (
	"sync"
	"time"

	"helpapp/internal/sensor/models"
)

const (
	DefaultThresholdG = 2.7
	DefaultShakeCount = 3

	// minShakeGap debounces one physical shake that spans several samples.
	minShakeGap = 500 * time.Millisecond
	// shakeResetAfter ends a gesture when shakes stop coming.
	shakeResetAfter = 3 * time.Second
)

// Detector recognises a deliberate shake gesture: count spikes above the
// threshold, each at least minShakeGap apart and none more than
// shakeResetAfter after the previous one.
type Detector struct {
	threshold float64
	count     int

	mu        sync.Mutex
	lastShake time.Time
	shakes    int
}

func NewDetector(thresholdG float64, count int) *Detector {
	if thresholdG <= 0 {
		thresholdG = DefaultThresholdG
	}
	if count <= 0 {
		count = DefaultShakeCount
	}
	return &Detector{threshold: thresholdG, count: count}
}

// Observe feeds one sample and reports whether it completed a gesture.
// The shake count restarts after a completed gesture.
func (d *Detector) Observe(s models.Sample) (shake, gesture bool) {
	if s.GForce() <= d.threshold {
		return false, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.lastShake.IsZero() {
		gap := s.At.Sub(d.lastShake)
		if gap < minShakeGap {
			return false, false
		}
		if gap > shakeResetAfter {
			d.shakes = 0
		}
	}

	d.lastShake = s.At
	d.shakes++
	if d.shakes >= d.count {
		d.shakes = 0
		return true, true
	}
	return true, false
}
