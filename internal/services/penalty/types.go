package penalty

import (
	"time"

	"bidmart/internal/models"
)

// PenaltyDetails carries the optional inputs of ApplyPenalty.
type PenaltyDetails struct {
	Severity         models.Severity
	Description      string
	RelatedAuctionID string
	RelatedBidID     string
	Evidence         []string
	ReportedBy       string
}

// CooldownRequest describes a cooldown to apply or extend.
type CooldownRequest struct {
	SellerID     string
	Type         models.CooldownType
	DurationDays int
	Reason       string
	TriggeredBy  string
	Appealable   bool
}

// PermissionGate is the outcome for one seller capability.
type PermissionGate struct {
	Allowed     bool       `json:"allowed"`
	Reason      string     `json:"reason,omitempty"`
	CooldownEnd *time.Time `json:"cooldown_end,omitempty"`
}

// PermissionCheckResult is consumed by seller-action guards.
type PermissionCheckResult struct {
	SellerID                 string           `json:"seller_id"`
	CanListProducts          PermissionGate   `json:"can_list_products"`
	CanParticipateInAuctions PermissionGate   `json:"can_participate_in_auctions"`
	CanReceivePayments       PermissionGate   `json:"can_receive_payments"`
	Restrictions             []string         `json:"restrictions"`
	RiskLevel                models.RiskLevel `json:"risk_level"`
	CheckedAt                time.Time        `json:"checked_at"`
}

// AppealResult acknowledges a submitted appeal.
type AppealResult struct {
	Success     bool      `json:"success"`
	PenaltyID   string    `json:"penalty_id"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ExpiryResult reports how many sellers the expiry sweep touched.
type ExpiryResult struct {
	PenaltySellers  int `json:"penalty_sellers"`
	CooldownSellers int `json:"cooldown_sellers"`
}

// PenaltyAppliedEvent is the payload of penalty.applied.
type PenaltyAppliedEvent struct {
	Penalty  *models.Penalty    `json:"penalty"`
	SellerID string             `json:"seller_id"`
	Type     models.PenaltyType `json:"type"`
	Amount   int64              `json:"amount"`
}

// CooldownAppliedEvent is the payload of cooldown.applied.
type CooldownAppliedEvent struct {
	Cooldown *models.Cooldown `json:"cooldown"`
	SellerID string           `json:"seller_id"`
}

// Config holds configuration for the penalty engine
type Config struct {
	// RiskScoreMaxAge bounds how old a cached risk score may be.
	RiskScoreMaxAge time.Duration
	// HistoryWindow is the look-back for the repeat-offender surcharge.
	HistoryWindow time.Duration
	// ScoreWindow is the look-back for score factors and category impact.
	ScoreWindow time.Duration
	// Now is the clock. Defaults to UTC wall time.
	Now func() time.Time
}

// MetricsCollector defines the interface for collecting penalty engine metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordError(operation, kind string)
	RecordEventPublishFailure(event string)

	RecordPenaltyApplied(penaltyType, severity string, amount int64)
	RecordCooldownApplied(cooldownType string, extended bool)
	RecordRiskScore(level string)
	RecordCacheLookup(result string)
	RecordExpired(kind string, count int)
}
