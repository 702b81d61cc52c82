package models

import (
	"time"
)

// Wallet holds a user's balance split into spendable and held funds.
type Wallet struct {
	UserID           string    `gorm:"primaryKey;size:64" json:"user_id"`
	AvailableBalance int64     `gorm:"not null;default:0" json:"available_balance"`
	HeldBalance      int64     `gorm:"not null;default:0" json:"held_balance"`
	Currency         string    `gorm:"size:3;not null" json:"currency"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WalletBalance is the read model returned to callers.
type WalletBalance struct {
	UserID           string    `json:"user_id"`
	AvailableBalance int64     `json:"available_balance"`
	HeldBalance      int64     `json:"held_balance"`
	TotalBalance     int64     `json:"total_balance"`
	Currency         string    `json:"currency"`
	LastUpdated      time.Time `json:"last_updated"`
}

func (w *Wallet) Snapshot() WalletBalance {
	return WalletBalance{
		UserID:           w.UserID,
		AvailableBalance: w.AvailableBalance,
		HeldBalance:      w.HeldBalance,
		TotalBalance:     w.AvailableBalance + w.HeldBalance,
		Currency:         w.Currency,
		LastUpdated:      w.UpdatedAt,
	}
}
