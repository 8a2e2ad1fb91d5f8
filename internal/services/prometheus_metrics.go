package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	detectionPasses    prometheus.Counter
	detectionDuration  prometheus.Histogram
	patternsDetected   *prometheus.CounterVec
	approvalDecisions  *prometheus.CounterVec
	workflowOutcomes   *prometheus.CounterVec
	budgetCalculations prometheus.Counter
	budgetLineCount    prometheus.Histogram
	budgetDuration     prometheus.Histogram
	pendingPatterns    *prometheus.GaugeVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		detectionPasses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pattern_detection_passes_total",
				Help: "Total number of pattern detection passes executed",
			},
		),
		detectionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pattern_detection_duration_milliseconds",
				Help:    "Pattern detection pass duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		patternsDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patterns_detected_total",
				Help: "Total number of recurring patterns detected by recurrence type",
			},
			[]string{"recurrence_pattern"},
		),
		approvalDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pattern_approval_decisions_total",
				Help: "Total number of pattern approval decisions by outcome",
			},
			[]string{"decision"},
		),
		workflowOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_workflow_outcomes_total",
				Help: "Total number of budget workflow runs by resulting step",
			},
			[]string{"step"},
		),
		budgetCalculations: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "budget_calculations_total",
				Help: "Total number of monthly budgets calculated",
			},
		),
		budgetLineCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "budget_line_count",
				Help:    "Number of lines per calculated budget",
				Buckets: prometheus.LinearBuckets(0, 5, 10),
			},
		),
		budgetDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "budget_calculation_duration_milliseconds",
				Help:    "Budget calculation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		pendingPatterns: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pending_patterns",
				Help: "Current number of patterns awaiting user approval",
			},
			[]string{"user_id"},
		),
	}
}

func (m *PrometheusMetrics) RecordDetectionPass(patternCount int, duration time.Duration) {
	m.detectionPasses.Inc()
	m.detectionDuration.Observe(float64(duration.Milliseconds()))
}

func (m *PrometheusMetrics) RecordPatternDetected(recurrencePattern string) {
	m.patternsDetected.WithLabelValues(recurrencePattern).Inc()
}

func (m *PrometheusMetrics) RecordApprovalDecision(decision string, count int64) {
	m.approvalDecisions.WithLabelValues(decision).Add(float64(count))
}

func (m *PrometheusMetrics) RecordWorkflowOutcome(step string) {
	m.workflowOutcomes.WithLabelValues(step).Inc()
}

func (m *PrometheusMetrics) RecordBudgetCalculation(lineCount int, duration time.Duration) {
	m.budgetCalculations.Inc()
	m.budgetLineCount.Observe(float64(lineCount))
	m.budgetDuration.Observe(float64(duration.Milliseconds()))
}

func (m *PrometheusMetrics) SetPendingPatterns(userID string, count float64) {
	m.pendingPatterns.WithLabelValues(userID).Set(count)
}
