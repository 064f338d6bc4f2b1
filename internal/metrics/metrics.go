// Package metrics owns the service's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "utrippin_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "utrippin_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	FlightSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "utrippin_flight_searches_total",
		Help: "Flight searches by operation and outcome",
	}, []string{"operation", "outcome"})

	FlightOffersReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "utrippin_flight_offers_returned",
		Help:    "Offers returned per flight search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	AssistantAnswers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "utrippin_assistant_answers_total",
		Help: "Assistant answers by source",
	}, []string{"source"})

	UsageAlertsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "utrippin_usage_alerts_sent_total",
		Help: "Usage alerts published by severity",
	}, []string{"severity"})

	UsageAlertErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "utrippin_usage_alert_errors_total",
		Help: "Usage alerts that failed to publish",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
