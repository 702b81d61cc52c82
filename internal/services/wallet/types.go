package wallet

import (
	"time"

	"bidmart/internal/models"
)

// OperationRequest represents a wallet operation request
type OperationRequest struct {
	UserID        string
	Amount        int64
	Purpose       models.TransactionPurpose
	ReferenceID   string
	ReferenceType string
	Description   string
	Metadata      map[string]interface{}
}

// OperationResult is returned by every balance mutation.
type OperationResult struct {
	Success       bool                 `json:"success"`
	TransactionID string               `json:"transaction_id"`
	NewBalance    models.WalletBalance `json:"new_balance"`
}

// RefundRequest credits a user back for an earlier transaction.
type RefundRequest struct {
	UserID                string
	Amount                int64
	OriginalTransactionID string
	Reason                string
}

// SettlementRequest describes a finished auction. A nil fee percent uses
// the configured default.
type SettlementRequest struct {
	AuctionID          string
	WinnerID           string
	SellerID           string
	FinalPrice         int64
	PlatformFeePercent *float64
}

// SettlementResult reports how the final price was split.
type SettlementResult struct {
	Success             bool    `json:"success"`
	AuctionID           string  `json:"auction_id"`
	FinalPrice          int64   `json:"final_price"`
	PlatformFee         int64   `json:"platform_fee"`
	SellerPayout        int64   `json:"seller_payout"`
	FeePercent          float64 `json:"fee_percent"`
	WinnerTransactionID string  `json:"winner_transaction_id"`
	SellerTransactionID string  `json:"seller_transaction_id,omitempty"`
	FeeTransactionID    string  `json:"fee_transaction_id,omitempty"`
}

// BidRefund is one losing bid whose deposit should be returned.
type BidRefund struct {
	BidID    string `json:"bid_id"`
	BidderID string `json:"bidder_id"`
	Amount   int64  `json:"amount"`
}

// FailedRefund records why a single bid could not be refunded.
type FailedRefund struct {
	BidID    string `json:"bid_id"`
	BidderID string `json:"bidder_id"`
	Amount   int64  `json:"amount"`
	Error    string `json:"error"`
}

// BidRefundResult summarises a refund batch. Success is always true;
// callers inspect FailedRefunds.
type BidRefundResult struct {
	Success       bool           `json:"success"`
	AuctionID     string         `json:"auction_id"`
	RefundedCount int            `json:"refunded_count"`
	TotalRefunded int64          `json:"total_refunded"`
	FailedRefunds []FailedRefund `json:"failed_refunds"`
}

// TransactionCompletedEvent is the payload of wallet.transaction.completed.
type TransactionCompletedEvent struct {
	Transaction *models.Transaction  `json:"transaction"`
	Balance     models.WalletBalance `json:"balance"`
}

// RefundProcessedEvent is the payload of wallet.refund.processed.
type RefundProcessedEvent struct {
	UserID                string `json:"user_id"`
	Amount                int64  `json:"amount"`
	TransactionID         string `json:"transaction_id"`
	OriginalTransactionID string `json:"original_transaction_id"`
	Reason                string `json:"reason"`
}

// WalletConfig holds configuration for wallet operations.
// A nil DefaultPlatformFeePercent selects the 5% default; zero is a valid fee.
type WalletConfig struct {
	DefaultCurrency           string
	PlatformAccountID         string
	DefaultPlatformFeePercent *float64
	Now                       func() time.Time
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)

	// Error metrics
	RecordError(operation, kind string)
	RecordEventPublishFailure(event string)

	// Transaction metrics
	RecordTransaction(txType, purpose string, amount int64)
}
