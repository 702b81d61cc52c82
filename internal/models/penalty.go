package models

import "time"

// PenaltyType is the kind of seller violation a penalty records.
type PenaltyType string

const (
	PenaltyLateDelivery         PenaltyType = "late_delivery"
	PenaltyNonDelivery          PenaltyType = "non_delivery"
	PenaltyFakeProduct          PenaltyType = "fake_product"
	PenaltyMisdescription       PenaltyType = "misdescription"
	PenaltyPoorQuality          PenaltyType = "poor_quality"
	PenaltyFraud                PenaltyType = "fraud"
	PenaltySystemAbuse          PenaltyType = "system_abuse"
	PenaltyInappropriateContent PenaltyType = "inappropriate_content"
	PenaltyShillBidding         PenaltyType = "shill_bidding"
	PenaltyBidRetraction        PenaltyType = "bid_retraction"
	PenaltyPaymentDefault       PenaltyType = "payment_default"
	PenaltyFeeEvasion           PenaltyType = "fee_evasion"
)

// AllPenaltyTypes lists every penalty type the rule catalog must cover.
var AllPenaltyTypes = []PenaltyType{
	PenaltyLateDelivery,
	PenaltyNonDelivery,
	PenaltyFakeProduct,
	PenaltyMisdescription,
	PenaltyPoorQuality,
	PenaltyFraud,
	PenaltySystemAbuse,
	PenaltyInappropriateContent,
	PenaltyShillBidding,
	PenaltyBidRetraction,
	PenaltyPaymentDefault,
	PenaltyFeeEvasion,
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type PenaltyStatus string

const (
	PenaltyStatusActive     PenaltyStatus = "active"
	PenaltyStatusExpired    PenaltyStatus = "expired"
	PenaltyStatusAppealed   PenaltyStatus = "appealed"
	PenaltyStatusOverturned PenaltyStatus = "overturned"
)

// Penalty is an immutable record of a violation and its fine.
type Penalty struct {
	ID               string        `gorm:"primaryKey;size:36" json:"id"`
	SellerID         string        `gorm:"size:64;not null;index:idx_penalties_seller_created,priority:1" json:"seller_id"`
	Type             PenaltyType   `gorm:"size:32;not null" json:"type"`
	Severity         Severity      `gorm:"size:16;not null" json:"severity"`
	Description      string        `json:"description"`
	Amount           int64         `gorm:"not null" json:"amount"`
	Status           PenaltyStatus `gorm:"size:16;not null;default:'active';index" json:"status"`
	RelatedAuctionID string        `gorm:"size:64" json:"related_auction_id,omitempty"`
	RelatedBidID     string        `gorm:"size:64" json:"related_bid_id,omitempty"`
	Evidence         StringList    `gorm:"type:jsonb" json:"evidence,omitempty"`
	ReportedBy       string        `gorm:"size:64" json:"reported_by,omitempty"`
	Automated        bool          `gorm:"not null;default:false" json:"automated"`
	CreatedAt        time.Time     `gorm:"not null;index:idx_penalties_seller_created,priority:2" json:"created_at"`
	ExpiresAt        time.Time     `gorm:"not null" json:"expires_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// ActiveAt reports whether the penalty is active and unexpired at now.
func (p *Penalty) ActiveAt(now time.Time) bool {
	return p.Status == PenaltyStatusActive && p.ExpiresAt.After(now)
}
