package observability

import "github.com/prometheus/client_golang/prometheus"

// Retrieval outcomes.
const (
	OutcomeReused   = "reused"
	OutcomeCreated  = "created"
	OutcomeReloaded = "reloaded"
	OutcomeStale    = "stale"
)

// Metrics groups the registry collectors.
type Metrics struct {
	retrievals    *prometheus.CounterVec
	registrations *prometheus.CounterVec
	resets        prometheus.Counter
	active        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		retrievals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ooor",
				Name:      "session_retrievals_total",
				Help:      "Session retrievals by outcome.",
			},
			[]string{"outcome"},
		),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ooor",
				Name:      "session_registrations_total",
				Help:      "Session registrations by result.",
			},
			[]string{"result"},
		),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ooor",
			Name:      "registry_resets_total",
			Help:      "Number of registry resets.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ooor",
			Name:      "sessions_active",
			Help:      "Sessions currently held in the in-process registry.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.retrievals, m.registrations, m.resets, m.active)
	}
	return m
}

// Retrieved counts one retrieval with the given outcome.
func (m *Metrics) Retrieved(outcome string) {
	if m == nil {
		return
	}
	m.retrievals.WithLabelValues(outcome).Inc()
}

// Registered counts one registration; err decides the result label.
func (m *Metrics) Registered(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.registrations.WithLabelValues(result).Inc()
}

// Reset counts a registry reset.
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.resets.Inc()
}

// SetActive records the registry size.
func (m *Metrics) SetActive(n int) {
	if m == nil {
		return
	}
	m.active.Set(float64(n))
}
