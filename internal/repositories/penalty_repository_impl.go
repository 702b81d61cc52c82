package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bidmart/internal/models"

	"gorm.io/gorm"
)

type penaltyRepository struct {
	db *gorm.DB
}

func NewPenaltyRepository(db *gorm.DB) PenaltyRepository {
	return &penaltyRepository{db: db}
}

func (r *penaltyRepository) CreatePenalty(ctx context.Context, p *models.Penalty) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create penalty: %w", err)
	}
	return nil
}

func (r *penaltyRepository) GetPenaltyByID(ctx context.Context, id string) (*models.Penalty, error) {
	var p models.Penalty
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPenaltyNotFound
		}
		return nil, fmt.Errorf("failed to get penalty: %w", err)
	}
	return &p, nil
}

func (r *penaltyRepository) ListPenalties(ctx context.Context, sellerID string) ([]models.Penalty, error) {
	var penalties []models.Penalty
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&penalties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list penalties: %w", err)
	}
	return penalties, nil
}

func (r *penaltyRepository) ListActivePenalties(ctx context.Context, sellerID string, now time.Time) ([]models.Penalty, error) {
	var penalties []models.Penalty
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND status = ? AND expires_at > ?", sellerID, models.PenaltyStatusActive, now).
		Order("created_at DESC").
		Find(&penalties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active penalties: %w", err)
	}
	return penalties, nil
}

func (r *penaltyRepository) ListPenaltiesSince(ctx context.Context, sellerID string, since time.Time) ([]models.Penalty, error) {
	var penalties []models.Penalty
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND created_at >= ?", sellerID, since).
		Order("created_at DESC").
		Find(&penalties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list penalty history: %w", err)
	}
	return penalties, nil
}

func (r *penaltyRepository) CountPenaltiesSince(ctx context.Context, sellerID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Penalty{}).
		Where("seller_id = ? AND created_at >= ?", sellerID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count penalties: %w", err)
	}
	return count, nil
}

// ExpirePenalties flips active penalties past their expiry to expired and
// returns the distinct sellers affected.
func (r *penaltyRepository) ExpirePenalties(ctx context.Context, now time.Time) ([]string, error) {
	var sellerIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Model(&models.Penalty{}).
			Where("status = ? AND expires_at <= ?", models.PenaltyStatusActive, now)
		if err := scope.Distinct().Pluck("seller_id", &sellerIDs).Error; err != nil {
			return err
		}
		if len(sellerIDs) == 0 {
			return nil
		}
		return tx.Model(&models.Penalty{}).
			Where("status = ? AND expires_at <= ?", models.PenaltyStatusActive, now).
			Updates(map[string]interface{}{
				"status":     models.PenaltyStatusExpired,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expire penalties: %w", err)
	}
	return sellerIDs, nil
}

func (r *penaltyRepository) ExecuteInTransaction(ctx context.Context, fn func(PenaltyRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &penaltyRepository{db: tx}
		return fn(txRepo)
	})
}
