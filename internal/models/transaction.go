package models

import (
	"time"
)

// Ledger movement types
type TransactionType string

const (
	TransactionCredit  TransactionType = "credit"
	TransactionDebit   TransactionType = "debit"
	TransactionHold    TransactionType = "hold"
	TransactionRelease TransactionType = "release"
)

type TransactionPurpose string

const (
	PurposeWalletTopup     TransactionPurpose = "wallet_topup"
	PurposeBidPlacement    TransactionPurpose = "bid_placement"
	PurposeBidRefund       TransactionPurpose = "bid_refund"
	PurposeAuctionWin      TransactionPurpose = "auction_win"
	PurposeAuctionPayout   TransactionPurpose = "auction_payout"
	PurposeSecurityDeposit TransactionPurpose = "security_deposit"
	PurposeCommission      TransactionPurpose = "commission"
	PurposePenalty         TransactionPurpose = "penalty"
	PurposeRefund          TransactionPurpose = "refund"
)

func (p TransactionPurpose) Valid() bool {
	switch p {
	case PurposeWalletTopup, PurposeBidPlacement, PurposeBidRefund, PurposeAuctionWin,
		PurposeAuctionPayout, PurposeSecurityDeposit, PurposeCommission, PurposePenalty, PurposeRefund:
		return true
	}
	return false
}

const (
	TransactionStatusCompleted = "completed"
)

// Transaction is an append-only ledger entry.
type Transaction struct {
	ID            string             `gorm:"primaryKey;size:36" json:"id"`
	UserID        string             `gorm:"size:64;not null;index" json:"user_id"`
	Amount        int64              `gorm:"not null" json:"amount"`
	Type          TransactionType    `gorm:"size:16;not null" json:"type"`
	Purpose       TransactionPurpose `gorm:"size:32;not null" json:"purpose"`
	Status        string             `gorm:"size:16;not null;default:'completed'" json:"status"`
	ReferenceID   string             `gorm:"size:64;index:idx_transactions_reference,priority:1" json:"reference_id,omitempty"`
	ReferenceType string             `gorm:"size:32;index:idx_transactions_reference,priority:2" json:"reference_type,omitempty"`
	Description   string             `json:"description"`
	Metadata      JSON               `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
