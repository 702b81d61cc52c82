package wallet

import (
	"context"

	"bidmart/internal/models"
)

// Service defines the main wallet service interface
type Service interface {
	// Balance operations
	GetBalance(ctx context.Context, userID string) (*models.WalletBalance, error)
	AddFunds(ctx context.Context, req OperationRequest) (*OperationResult, error)
	DeductFunds(ctx context.Context, req OperationRequest) (*OperationResult, error)
	HoldFunds(ctx context.Context, req OperationRequest) (*OperationResult, error)
	ReleaseFunds(ctx context.Context, req OperationRequest) (*OperationResult, error)

	// Marketplace flows
	ProcessRefund(ctx context.Context, req RefundRequest) (*OperationResult, error)
	ProcessAuctionSettlement(ctx context.Context, req SettlementRequest) (*SettlementResult, error)
	RefundAuctionBids(ctx context.Context, auctionID string, bids []BidRefund) (*BidRefundResult, error)

	// Ledger queries
	GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
}
