// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bidmart"

// Penalty engine metrics
var (
	PenaltiesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalties_applied_total",
			Help:      "Penalties applied by type and severity",
		},
		[]string{"type", "severity"},
	)

	PenaltyFinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalty_fines_minor_units_total",
			Help:      "Sum of penalty fines in minor currency units",
		},
		[]string{"type"},
	)

	CooldownsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cooldowns_applied_total",
			Help:      "Cooldowns applied, split by whether an active cooldown was extended",
		},
		[]string{"type", "extended"},
	)

	RiskScoresCalculated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_scores_calculated_total",
			Help:      "Risk score recomputations by resulting level",
		},
		[]string{"level"},
	)

	RiskScoreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_score_cache_lookups_total",
			Help:      "Risk score cache lookups",
		},
		[]string{"result"}, // hit/miss/stale
	)

	ExpirySweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiry_sweep_records_total",
			Help:      "Records flipped by the expiry sweeper",
		},
		[]string{"kind"},
	)
)

// Wallet ledger metrics
var (
	WalletTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_transactions_total",
			Help:      "Ledger transactions by type and purpose",
		},
		[]string{"type", "purpose"},
	)

	WalletVolume = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_volume_minor_units_total",
			Help:      "Ledger volume in minor currency units",
		},
		[]string{"type"},
	)
)

// Shared operation metrics
var (
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"service", "operation"},
	)

	OperationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_results_total",
			Help:      "Service operation outcomes",
		},
		[]string{"service", "operation", "result"},
	)

	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Service operation errors by kind",
		},
		[]string{"service", "operation", "kind"},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Domain events that could not be published",
		},
		[]string{"event"},
	)
)

// Collector records service metrics into the package collectors. One value
// serves one service; the name becomes the "service" label.
type Collector struct {
	service string
}

func NewCollector(service string) *Collector {
	return &Collector{service: service}
}

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	OperationDuration.WithLabelValues(c.service, operation).Observe(d.Seconds())
}

func (c *Collector) RecordOperationResult(operation, result string) {
	OperationResults.WithLabelValues(c.service, operation, result).Inc()
}

func (c *Collector) RecordError(operation, kind string) {
	OperationErrors.WithLabelValues(c.service, operation, kind).Inc()
}

func (c *Collector) RecordEventPublishFailure(event string) {
	EventPublishFailures.WithLabelValues(event).Inc()
}

func (c *Collector) RecordPenaltyApplied(penaltyType, severity string, amount int64) {
	PenaltiesApplied.WithLabelValues(penaltyType, severity).Inc()
	PenaltyFinesTotal.WithLabelValues(penaltyType).Add(float64(amount))
}

func (c *Collector) RecordCooldownApplied(cooldownType string, extended bool) {
	label := "false"
	if extended {
		label = "true"
	}
	CooldownsApplied.WithLabelValues(cooldownType, label).Inc()
}

func (c *Collector) RecordRiskScore(level string) {
	RiskScoresCalculated.WithLabelValues(level).Inc()
}

func (c *Collector) RecordCacheLookup(result string) {
	RiskScoreCacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) RecordTransaction(txType, purpose string, amount int64) {
	WalletTransactions.WithLabelValues(txType, purpose).Inc()
	WalletVolume.WithLabelValues(txType).Add(float64(amount))
}

func (c *Collector) RecordExpired(kind string, count int) {
	ExpirySweeps.WithLabelValues(kind).Add(float64(count))
}
