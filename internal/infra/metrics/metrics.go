// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_gate_decisions_total",
		Help: "Session gate decisions by route class and outcome.",
	}, []string{"class", "decision"})

	PasswordResetRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_password_reset_requests_total",
		Help: "Password reset requests by result.",
	}, []string{"result"})

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_emails_sent_total",
		Help: "Transactional emails by kind and result.",
	}, []string{"kind", "result"})

	MenuViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_public_views_total",
		Help: "Public menu page renders by template.",
	}, []string{"template"})
)

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
