package metrics

import "github.com/prometheus/client_golang/prometheus"

// PlatformMetrics exposes counters/gauges for the contact platform.
type PlatformMetrics struct {
	loginTotal        *prometheus.CounterVec
	registrationTotal *prometheus.CounterVec
	interactionsTotal *prometheus.CounterVec
	finalizedTotal    prometheus.Counter
	queuePending      prometheus.Gauge
}

func NewPlatformMetrics(reg prometheus.Registerer) *PlatformMetrics {
	m := &PlatformMetrics{
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediconnect",
			Subsystem: "identity",
			Name:      "login_total",
			Help:      "Total login attempts by outcome",
		}, []string{"outcome"}),
		registrationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediconnect",
			Subsystem: "identity",
			Name:      "registration_total",
			Help:      "Total registration attempts by outcome",
		}, []string{"outcome"}),
		interactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediconnect",
			Subsystem: "agent",
			Name:      "interactions_total",
			Help:      "Total messages sent by agents",
		}, []string{"agent"}),
		finalizedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mediconnect",
			Subsystem: "agent",
			Name:      "conversations_finalized_total",
			Help:      "Total conversations finalized",
		}),
		queuePending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mediconnect",
			Subsystem: "queue",
			Name:      "pending",
			Help:      "Conversations waiting for an agent",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.loginTotal,
		m.registrationTotal,
		m.interactionsTotal,
		m.finalizedTotal,
		m.queuePending,
	)
	return m
}

// ObserveLogin records a login attempt outcome.
func (m *PlatformMetrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginTotal.WithLabelValues(outcome).Inc()
}

// ObserveRegistration records a registration attempt outcome.
func (m *PlatformMetrics) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrationTotal.WithLabelValues(outcome).Inc()
}

// ObserveInteraction records one handled interaction for an agent.
func (m *PlatformMetrics) ObserveInteraction(agent string) {
	if m == nil {
		return
	}
	m.interactionsTotal.WithLabelValues(agent).Inc()
}

// ObserveFinalized records one finalized conversation.
func (m *PlatformMetrics) ObserveFinalized() {
	if m == nil {
		return
	}
	m.finalizedTotal.Inc()
}

// SetQueuePending updates the pending-queue gauge.
func (m *PlatformMetrics) SetQueuePending(n int) {
	if m == nil {
		return
	}
	m.queuePending.Set(float64(n))
}
