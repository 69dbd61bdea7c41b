package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Widget authorization runs on every embedded page load; these collectors
// are the main signal for watching deny spikes after key rotations or
// domain cancellations.
var (
	WidgetAuthDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nature_widget",
		Subsystem: "widget_auth",
		Name:      "decisions_total",
		Help:      "Widget authorization decisions by result.",
	}, []string{"result"})

	WidgetAuthDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nature_widget",
		Subsystem: "widget_auth",
		Name:      "duration_seconds",
		Help:      "Latency of the widget authorization decision.",
		Buckets:   prometheus.DefBuckets,
	})

	DomainPurchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nature_widget",
		Subsystem: "domains",
		Name:      "purchases_total",
		Help:      "Extra-domain purchase outcomes.",
	}, []string{"outcome"})
)

// Decision labels for WidgetAuthDecisions
const (
	ResultAllowed             = "allowed"
	ResultInvalidKey          = "invalid_key"
	ResultMissingOrigin       = "missing_origin"
	ResultDomainNotAuthorized = "domain_not_authorized"
	ResultStoreError          = "store_error"
)
