package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// SOS dispatch metrics
	Dispatches         *prometheus.CounterVec
	DispatchLatency    prometheus.Histogram
	LocationResolution *prometheus.CounterVec
	SMSSent            *prometheus.CounterVec
	SMSFailures        prometheus.Counter
	PermissionDenials  *prometheus.CounterVec

	// Contact metrics
	ContactsStored    prometheus.Gauge
	ContactRejections prometheus.Counter

	// Trigger metrics
	SignalsReceived *prometheus.CounterVec
	ShakesDetected  prometheus.Counter

	EndpointLatency *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpapp_sos_dispatches_total",
			Help: "Total SOS dispatches, labeled by origin and outcome",
		}, []string{"origin", "outcome"}),
		DispatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "helpapp_sos_dispatch_latency_seconds",
			Help:    "Time from trigger to last SMS handed to the transport",
			Buckets: prometheus.DefBuckets,
		}),
		LocationResolution: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpapp_sos_location_resolutions_total",
			Help: "Location lookups per dispatch, labeled by result (resolved, empty, disabled)",
		}, []string{"result"}),
		SMSSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpapp_sms_sent_total",
			Help: "SMS messages handed to the transport, labeled by message branch",
		}, []string{"branch"}),
		SMSFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "helpapp_sms_failures_total",
			Help: "SMS messages the transport refused",
		}),
		PermissionDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpapp_permission_denials_total",
			Help: "Dispatches stopped by a missing permission, labeled by permission",
		}, []string{"permission"}),
		ContactsStored: factory.NewGauge(prometheus.GaugeOpts{
			Name: "helpapp_contacts_stored",
			Help: "Current number of emergency contacts",
		}),
		ContactRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "helpapp_contact_limit_rejections_total",
			Help: "Contact additions rejected because the list was full",
		}),
		SignalsReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpapp_trigger_signals_total",
			Help: "Signals delivered to the trigger bus, labeled by source and whether they fired a dispatch",
		}, []string{"source", "fired"}),
		ShakesDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "helpapp_sensor_shakes_total",
			Help: "Shake gestures recognised from accelerometer samples",
		}),
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpapp_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncrementDispatch(origin, outcome string) {
	m.Dispatches.WithLabelValues(origin, outcome).Inc()
}

func (m *Metrics) ObserveDispatchLatency(durationSeconds float64) {
	m.DispatchLatency.Observe(durationSeconds)
}

func (m *Metrics) IncrementLocationResolution(result string) {
	m.LocationResolution.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementSMSSent(branch string) {
	m.SMSSent.WithLabelValues(branch).Inc()
}

func (m *Metrics) IncrementSMSFailures() {
	m.SMSFailures.Inc()
}

func (m *Metrics) IncrementPermissionDenial(permission string) {
	m.PermissionDenials.WithLabelValues(permission).Inc()
}

// SetContactsStored records the current contact list size.
func (m *Metrics) SetContactsStored(count int) {
	m.ContactsStored.Set(float64(count))
}

func (m *Metrics) IncrementContactRejections() {
	m.ContactRejections.Inc()
}

func (m *Metrics) IncrementSignal(source string, fired bool) {
	label := "false"
	if fired {
		label = "true"
	}
	m.SignalsReceived.WithLabelValues(source, label).Inc()
}

func (m *Metrics) IncrementShakes() {
	m.ShakesDetected.Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
