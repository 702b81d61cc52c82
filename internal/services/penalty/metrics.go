package penalty

import "time"

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordEventPublishFailure(string)              {}
func (n *NoopMetricsCollector) RecordPenaltyApplied(string, string, int64)    {}
func (n *NoopMetricsCollector) RecordCooldownApplied(string, bool)            {}
func (n *NoopMetricsCollector) RecordRiskScore(string)                        {}
func (n *NoopMetricsCollector) RecordCacheLookup(string)                      {}
func (n *NoopMetricsCollector) RecordExpired(string, int)                     {}
