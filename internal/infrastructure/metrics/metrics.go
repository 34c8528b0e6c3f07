package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	PurchasesTotal     *prometheus.CounterVec
	SessionsActive     prometheus.GaugeFunc
	SessionsSweptTotal prometheus.Counter
	MotorCommandsTotal *prometheus.CounterVec
}

// New builds the collectors. activeSessions is sampled on scrape and should
// read the lock table's current entry count.
func New(activeSessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PurchasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yakrover_purchases_total",
			Help: "Purchase attempts by outcome.",
		}, []string{"outcome"}),
		SessionsActive: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "yakrover_sessions_active",
			Help: "Lock table entries, expired-but-unswept included.",
		}, activeSessions),
		SessionsSweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yakrover_sessions_swept_total",
			Help: "Sessions removed by the expiry sweeper.",
		}),
		MotorCommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yakrover_motor_commands_total",
			Help: "Motor commands forwarded to robots.",
		}, []string{"command"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.PurchasesTotal,
		m.SessionsActive,
		m.SessionsSweptTotal,
		m.MotorCommandsTotal,
	)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
