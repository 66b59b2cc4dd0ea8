package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "legalpadi"

var (
	gateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "gate_decisions_total",
		Help:      "Authentication decisions by outcome.",
	}, []string{"kind", "outcome"})

	policyDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "policy_denials_total",
		Help:      "Requests rejected by role policy, by caller role.",
	}, []string{"role"})

	tokensMinted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "tokens_minted_total",
		Help:      "Tokens minted by kind.",
	}, []string{"kind"})

	revocations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "revocations_total",
		Help:      "Token ids written to the revocation list.",
	})

	swept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "revocations_swept_total",
		Help:      "Revocation records removed after their token expired.",
	})

	published = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_published_total",
		Help:      "Outbound messages by topic and result.",
	}, []string{"topic", "result"})
)

func GateDecision(kind, outcome string) { gateDecisions.WithLabelValues(kind, outcome).Inc() }

func PolicyDenied(role string) { policyDenials.WithLabelValues(role).Inc() }

func TokenMinted(kind string) { tokensMinted.WithLabelValues(kind).Inc() }

func Revoked() { revocations.Inc() }

func Swept(n int64) { swept.Add(float64(n)) }

func Published(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	published.WithLabelValues(topic, result).Inc()
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
