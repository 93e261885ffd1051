package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codescope_analyses_total",
		Help: "Analyze requests by detected language and outcome.",
	}, []string{"language", "outcome"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codescope_analysis_seconds",
		Help:    "Time spent analyzing a single source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	HistoryStoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codescope_history_store_errors_total",
		Help: "History records that could not be persisted.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codescope_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})
)
