package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bidmart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// EnsureWallet creates an empty wallet for the user unless one exists.
func (r *walletRepository) EnsureWallet(ctx context.Context, userID, currency string) error {
	wallet := models.Wallet{UserID: userID, Currency: currency}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&wallet).Error
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) Credit(ctx context.Context, userID string, amount int64, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance + ?", amount),
			"updated_at":        now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to credit wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// Debit lowers the available balance only when it covers amount.
func (r *walletRepository) Debit(ctx context.Context, userID string, amount int64, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ? AND available_balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance - ?", amount),
			"updated_at":        now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to debit wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func (r *walletRepository) Hold(ctx context.Context, userID string, amount int64, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ? AND available_balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance - ?", amount),
			"held_balance":      gorm.Expr("held_balance + ?", amount),
			"updated_at":        now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to hold funds: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func (r *walletRepository) Release(ctx context.Context, userID string, amount int64, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ? AND held_balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance + ?", amount),
			"held_balance":      gorm.Expr("held_balance - ?", amount),
			"updated_at":        now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to release funds: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientHeld
	}
	return nil
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" || tx.UserID == "" {
		return ErrInvalidTransaction
	}
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}

func (r *walletRepository) GetTransactionsByReference(ctx context.Context, referenceID, referenceType string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("reference_id = ? AND reference_type = ?", referenceID, referenceType).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions by reference: %w", err)
	}
	return txs, nil
}

func (r *walletRepository) CreateSettlement(ctx context.Context, s *models.AuctionSettlement) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSettlementExists
		}
		return fmt.Errorf("failed to record settlement: %w", err)
	}
	return nil
}

func (r *walletRepository) GetSettlement(ctx context.Context, auctionID string) (*models.AuctionSettlement, error) {
	var s models.AuctionSettlement
	if err := r.db.WithContext(ctx).Where("auction_id = ?", auctionID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return &s, nil
}

func (r *walletRepository) ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &walletRepository{db: tx}
		return fn(txRepo)
	})
}
