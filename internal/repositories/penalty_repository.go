package repositories

import (
	"context"
	"errors"
	"time"

	"bidmart/internal/models"
)

var (
	ErrPenaltyNotFound   = errors.New("penalty not found")
	ErrCooldownNotFound  = errors.New("cooldown not found")
	ErrRiskScoreNotFound = errors.New("risk score not found")

	ErrActiveCooldownExists = errors.New("active cooldown already exists")
)

// PenaltyRepository persists the seller discipline records: penalties,
// cooldowns and risk-score snapshots. They share one repository so a
// penalty, its cooldown and the recomputed score commit together.
type PenaltyRepository interface {
	// Penalties
	CreatePenalty(ctx context.Context, p *models.Penalty) error
	GetPenaltyByID(ctx context.Context, id string) (*models.Penalty, error)
	ListPenalties(ctx context.Context, sellerID string) ([]models.Penalty, error)
	ListActivePenalties(ctx context.Context, sellerID string, now time.Time) ([]models.Penalty, error)
	ListPenaltiesSince(ctx context.Context, sellerID string, since time.Time) ([]models.Penalty, error)
	CountPenaltiesSince(ctx context.Context, sellerID string, since time.Time) (int64, error)
	ExpirePenalties(ctx context.Context, now time.Time) ([]string, error)

	// Cooldowns
	CreateCooldown(ctx context.Context, c *models.Cooldown) error
	UpdateCooldown(ctx context.Context, c *models.Cooldown) error
	GetActiveCooldown(ctx context.Context, sellerID string, cooldownType models.CooldownType, now time.Time) (*models.Cooldown, error)
	ListActiveCooldowns(ctx context.Context, sellerID string, now time.Time) ([]models.Cooldown, error)
	DeactivateStaleCooldowns(ctx context.Context, sellerID string, cooldownType models.CooldownType, now time.Time) error
	ExpireCooldowns(ctx context.Context, now time.Time) ([]string, error)

	// Risk scores
	GetRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error)
	SaveRiskScore(ctx context.Context, score *models.RiskScore) error

	ExecuteInTransaction(ctx context.Context, fn func(PenaltyRepository) error) error
}

// PerformanceRepository reads the seller metrics maintained by analytics.
type PerformanceRepository interface {
	GetBySellerID(ctx context.Context, sellerID string) (*models.SellerPerformance, error)
	Upsert(ctx context.Context, perf *models.SellerPerformance) error
}
