package penalty

import (
	"context"

	"bidmart/internal/models"
)

// Service defines the risk and penalty engine.
type Service interface {
	// Penalties
	ApplyPenalty(ctx context.Context, sellerID string, penaltyType models.PenaltyType, details PenaltyDetails) (*models.Penalty, error)
	CalculatePenaltyAmount(ctx context.Context, sellerID string, baseAmount int64, severity models.Severity) (int64, error)
	GetPenalty(ctx context.Context, penaltyID string) (*models.Penalty, error)
	ListPenalties(ctx context.Context, sellerID string) ([]models.Penalty, error)
	AppealPenalty(ctx context.Context, penaltyID, reason string, evidence []string) (*AppealResult, error)
	Rules() []PenaltyRule

	// Risk scores
	CalculateRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error)
	GetRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error)

	// Cooldowns and permission gates
	ApplyCooldown(ctx context.Context, req CooldownRequest) (*models.Cooldown, error)
	ListActiveCooldowns(ctx context.Context, sellerID string) ([]models.Cooldown, error)
	CheckSellerPermissions(ctx context.Context, sellerID string) (*PermissionCheckResult, error)

	// Maintenance
	ExpireRecords(ctx context.Context) (*ExpiryResult, error)
}

// PerformanceProvider supplies seller metrics from analytics. A nil
// result means the seller has no metrics yet.
type PerformanceProvider interface {
	GetBySellerID(ctx context.Context, sellerID string) (*models.SellerPerformance, error)
}

// RiskScoreCache keeps recent snapshots out of the database path.
type RiskScoreCache interface {
	GetRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error)
	SetRiskScore(ctx context.Context, score *models.RiskScore) error
	InvalidateRiskScores(ctx context.Context, sellerIDs ...string) error
}
