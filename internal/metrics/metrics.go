// Package metrics holds the prometheus counters for account activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer, every recorder is then a no-op.
type Metrics struct {
	registry         *prometheus.Registry
	registrations    *prometheus.CounterVec
	logins           *prometheus.CounterVec
	verifications    *prometheus.CounterVec
	verificationMail *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_registrations_total",
				Help: "Total number of registration attempts by result",
			},
			[]string{"result"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_verifications_total",
				Help: "Total number of email verification attempts by result",
			},
			[]string{"result"},
		),
		verificationMail: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_verification_mail_total",
				Help: "Total number of verification mails by delivery result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.registrations,
		m.logins,
		m.verifications,
		m.verificationMail,
	)

	return m
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) Verification(result string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(result).Inc()
}

func (m *Metrics) VerificationMail(result string) {
	if m == nil {
		return
	}
	m.verificationMail.WithLabelValues(result).Inc()
}
