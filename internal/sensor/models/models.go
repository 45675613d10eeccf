package models

import (
	"math"
	"time"
)

// StandardGravity converts m/s² to g.
const StandardGravity = 9.80665

// Sample is one accelerometer reading in m/s².
type Sample struct {
	X  float64   `json:"x"`
	Y  float64   `json:"y"`
	Z  float64   `json:"z"`
	At time.Time `json:"at"`
}

// GForce is the magnitude of the reading in g.
func (s Sample) GForce() float64 {
	return math.Sqrt(s.X*s.X+s.Y*s.Y+s.Z*s.Z) / StandardGravity
}

// Batch is the wire shape of an upload, over HTTP or kafka.
type Batch struct {
	Samples []Sample `json:"samples"`
}
