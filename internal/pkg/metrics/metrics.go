package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loyalty"

// Scan outcomes
const (
	ScanCounted     = "counted"
	ScanRateLimited = "rate_limited"
	ScanMalformed   = "malformed"
	ScanBadSig      = "invalid_signature"
	ScanExpired     = "expired"
	ScanFailed      = "failed"
)

// Redemption outcomes
const (
	RedeemOK        = "ok"
	RedeemForbidden = "forbidden"
	RedeemNoCredit  = "no_free_drinks"
	RedeemFailed    = "failed"
)

type Registry struct {
	registry    *prometheus.Registry
	scans       *prometheus.CounterVec
	rewards     prometheus.Counter
	redemptions *prometheus.CounterVec
	requests    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
}

func New() *Registry {
	registry := prometheus.NewRegistry()
	scans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Scan attempts segmented by outcome.",
	}, []string{"outcome"})
	rewards := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rewards_earned_total",
		Help:      "Free-item credits earned by reaching the stamp threshold.",
	})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redemptions_total",
		Help:      "Redemption attempts segmented by outcome.",
	}, []string{"outcome"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests segmented by route, method and status.",
	}, []string{"route", "method", "status"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	registry.MustRegister(scans, rewards, redemptions, requests, durations)

	return &Registry{
		registry:    registry,
		scans:       scans,
		rewards:     rewards,
		redemptions: redemptions,
		requests:    requests,
		durations:   durations,
	}
}

func (r *Registry) ObserveScan(outcome string, earnedReward bool) {
	r.scans.WithLabelValues(outcome).Inc()
	if earnedReward {
		r.rewards.Inc()
	}
}

func (r *Registry) ObserveRedemption(outcome string) {
	r.redemptions.WithLabelValues(outcome).Inc()
}

func (r *Registry) ObserveRequest(route, method, status string, elapsed time.Duration) {
	r.requests.WithLabelValues(route, method, status).Inc()
	r.durations.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
