package models

import "time"

// AuctionSettlement records that an auction's proceeds were distributed.
// The auction id is the primary key so an auction settles at most once.
type AuctionSettlement struct {
	AuctionID    string    `gorm:"primaryKey;size:64" json:"auction_id"`
	WinnerID     string    `gorm:"size:64;not null" json:"winner_id"`
	SellerID     string    `gorm:"size:64;not null;index" json:"seller_id"`
	FinalPrice   int64     `gorm:"not null" json:"final_price"`
	PlatformFee  int64     `gorm:"not null" json:"platform_fee"`
	SellerPayout int64     `gorm:"not null" json:"seller_payout"`
	FeePercent   float64   `gorm:"not null" json:"fee_percent"`
	CreatedAt    time.Time `json:"created_at"`
}
