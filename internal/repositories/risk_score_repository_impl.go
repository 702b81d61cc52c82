package repositories

import (
	"context"
	"errors"
	"fmt"

	"bidmart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *penaltyRepository) GetRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error) {
	var score models.RiskScore
	if err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&score).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRiskScoreNotFound
		}
		return nil, fmt.Errorf("failed to get risk score: %w", err)
	}
	return &score, nil
}

// SaveRiskScore overwrites the seller's snapshot.
func (r *penaltyRepository) SaveRiskScore(ctx context.Context, score *models.RiskScore) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seller_id"}},
			UpdateAll: true,
		}).
		Create(score).Error
	if err != nil {
		return fmt.Errorf("failed to save risk score: %w", err)
	}
	return nil
}

type performanceRepository struct {
	db *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) PerformanceRepository {
	return &performanceRepository{db: db}
}

func (r *performanceRepository) GetBySellerID(ctx context.Context, sellerID string) (*models.SellerPerformance, error) {
	var perf models.SellerPerformance
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&perf).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get seller performance: %w", err)
	}
	return &perf, nil
}

func (r *performanceRepository) Upsert(ctx context.Context, perf *models.SellerPerformance) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seller_id"}},
			UpdateAll: true,
		}).
		Create(perf).Error
	if err != nil {
		return fmt.Errorf("failed to save seller performance: %w", err)
	}
	return nil
}
