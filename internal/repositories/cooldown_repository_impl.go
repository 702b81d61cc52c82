package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bidmart/internal/models"

	"gorm.io/gorm"
)

// CreateCooldown inserts c under a savepoint when called inside a
// transaction, so a lost race on the active-cooldown index leaves the outer
// transaction usable and returns ErrActiveCooldownExists.
func (r *penaltyRepository) CreateCooldown(ctx context.Context, c *models.Cooldown) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(c).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrActiveCooldownExists
		}
		return fmt.Errorf("failed to create cooldown: %w", err)
	}
	return nil
}

func (r *penaltyRepository) UpdateCooldown(ctx context.Context, c *models.Cooldown) error {
	result := r.db.WithContext(ctx).
		Model(&models.Cooldown{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"end_date":    c.EndDate,
			"description": c.Description,
			"is_active":   c.IsActive,
			"updated_at":  c.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update cooldown: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCooldownNotFound
	}
	return nil
}

func (r *penaltyRepository) GetActiveCooldown(ctx context.Context, sellerID string, cooldownType models.CooldownType, now time.Time) (*models.Cooldown, error) {
	var c models.Cooldown
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND type = ? AND is_active = ? AND end_date > ?", sellerID, cooldownType, true, now).
		Order("end_date DESC").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCooldownNotFound
		}
		return nil, fmt.Errorf("failed to get cooldown: %w", err)
	}
	return &c, nil
}

func (r *penaltyRepository) ListActiveCooldowns(ctx context.Context, sellerID string, now time.Time) ([]models.Cooldown, error) {
	var cooldowns []models.Cooldown
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND is_active = ? AND end_date > ?", sellerID, true, now).
		Order("end_date ASC").
		Find(&cooldowns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cooldowns: %w", err)
	}
	return cooldowns, nil
}

// DeactivateStaleCooldowns clears the active flag on rows of the given type
// whose end date has passed but which the sweeper has not reached yet.
func (r *penaltyRepository) DeactivateStaleCooldowns(ctx context.Context, sellerID string, cooldownType models.CooldownType, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Cooldown{}).
		Where("seller_id = ? AND type = ? AND is_active = ? AND end_date <= ?", sellerID, cooldownType, true, now).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate cooldowns: %w", err)
	}
	return nil
}

func (r *penaltyRepository) ExpireCooldowns(ctx context.Context, now time.Time) ([]string, error) {
	var sellerIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Cooldown{}).
			Where("is_active = ? AND end_date <= ?", true, now).
			Distinct().Pluck("seller_id", &sellerIDs).Error; err != nil {
			return err
		}
		if len(sellerIDs) == 0 {
			return nil
		}
		return tx.Model(&models.Cooldown{}).
			Where("is_active = ? AND end_date <= ?", true, now).
			Updates(map[string]interface{}{
				"is_active":  false,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expire cooldowns: %w", err)
	}
	return sellerIDs, nil
}
