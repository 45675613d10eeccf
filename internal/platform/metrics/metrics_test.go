package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegisterPerRegistry(t *testing.T) {
	// Two instances against separate registries must not collide.
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.IncrementDispatch("button", "sent")
	a.IncrementDispatch("button", "sent")
	b.IncrementDispatch("signal", "permission_denied")

	assert.InDelta(t, 2, testutil.ToFloat64(a.Dispatches.WithLabelValues("button", "sent")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Dispatches.WithLabelValues("button", "sent")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(b.Dispatches.WithLabelValues("signal", "permission_denied")), 0)
}

func TestSignalLabels(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.IncrementSignal("kafka", true)
	m.IncrementSignal("kafka", false)
	m.IncrementSignal("kafka", false)

	assert.InDelta(t, 1, testutil.ToFloat64(m.SignalsReceived.WithLabelValues("kafka", "true")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.SignalsReceived.WithLabelValues("kafka", "false")), 0)
}

func TestContactsGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetContactsStored(3)
	m.SetContactsStored(2)
	assert.InDelta(t, 2, testutil.ToFloat64(m.ContactsStored), 0)
}
