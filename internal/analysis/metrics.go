package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refund_analyses_total",
			Help: "Total number of claim analyses by resulting risk tier",
		},
		[]string{"risk_tier"},
	)

	disputesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refund_disputes_generated_total",
			Help: "Total number of dispute objections generated by escalation level",
		},
		[]string{"level"},
	)

	anomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refund_anomalies_detected_total",
			Help: "Total number of anomalies flagged by subject and severity",
		},
		[]string{"subject", "severity"},
	)

	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refund_analysis_duration_seconds",
			Help:    "Time spent running the full analysis pipeline for one claim",
			Buckets: prometheus.DefBuckets,
		},
	)
)
