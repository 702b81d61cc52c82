package repositories

import (
	"context"
	"errors"
	"time"

	"bidmart/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrInsufficientHeld    = errors.New("insufficient held balance")
	ErrSettlementExists    = errors.New("auction already settled")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

// WalletRepository defines the interface for wallet-related database operations.
// Balance mutations are single conditional statements; callers pair them with
// CreateTransaction inside ExecuteInTransaction.
type WalletRepository interface {
	// Core wallet operations
	GetByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	EnsureWallet(ctx context.Context, userID, currency string) error

	// Balance movements
	Credit(ctx context.Context, userID string, amount int64, now time.Time) error
	Debit(ctx context.Context, userID string, amount int64, now time.Time) error
	Hold(ctx context.Context, userID string, amount int64, now time.Time) error
	Release(ctx context.Context, userID string, amount int64, now time.Time) error

	// Ledger operations
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
	GetTransactionsByReference(ctx context.Context, referenceID, referenceType string) ([]models.Transaction, error)

	// Settlements
	CreateSettlement(ctx context.Context, s *models.AuctionSettlement) error
	GetSettlement(ctx context.Context, auctionID string) (*models.AuctionSettlement, error)

	ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error
}
