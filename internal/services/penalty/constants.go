package penalty

import (
	"time"

	"bidmart/internal/models"
)

// Default configuration values
const (
	DefaultRiskScoreMaxAge = 15 * time.Minute
	DefaultHistoryWindow   = 365 * 24 * time.Hour
	DefaultScoreWindow     = 90 * 24 * time.Hour
)

// Operation names used in logs and metrics
const (
	opApplyPenalty     = "apply_penalty"
	opCalculateAmount  = "calculate_penalty_amount"
	opCalculateScore   = "calculate_risk_score"
	opGetScore         = "get_risk_score"
	opApplyCooldown    = "apply_cooldown"
	opCheckPermissions = "check_seller_permissions"
	opAppeal           = "appeal_penalty"
	opGetPenalty       = "get_penalty"
	opListPenalties    = "list_penalties"
	opListCooldowns    = "list_cooldowns"
	opExpire           = "expire_records"
)

// cooldownSeverity is fixed per cooldown type.
var cooldownSeverity = map[models.CooldownType]models.Severity{
	models.CooldownListingBan:         models.SeverityHigh,
	models.CooldownAuctionBan:         models.SeverityHigh,
	models.CooldownAccountSuspension:  models.SeverityCritical,
	models.CooldownFeatureRestriction: models.SeverityMedium,
	models.CooldownReviewRequired:     models.SeverityLow,
}

// CooldownSeverity returns the severity recorded for a cooldown type.
func CooldownSeverity(t models.CooldownType) models.Severity {
	return cooldownSeverity[t]
}
