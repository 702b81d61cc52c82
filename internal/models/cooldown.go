package models

import "time"

// CooldownType is the seller capability a cooldown restricts.
type CooldownType string

const (
	CooldownListingBan         CooldownType = "listing_ban"
	CooldownAuctionBan         CooldownType = "auction_ban"
	CooldownAccountSuspension  CooldownType = "account_suspension"
	CooldownFeatureRestriction CooldownType = "feature_restriction"
	CooldownReviewRequired     CooldownType = "review_required"
)

func (t CooldownType) Valid() bool {
	switch t {
	case CooldownListingBan, CooldownAuctionBan, CooldownAccountSuspension,
		CooldownFeatureRestriction, CooldownReviewRequired:
		return true
	}
	return false
}

// CooldownTriggeredBySystem marks cooldowns not caused by a specific penalty.
const CooldownTriggeredBySystem = "system"

// Cooldown is a time-boxed restriction. At most one active row exists per
// (seller, type), enforced by a partial unique index; re-application extends
// EndDate in place.
type Cooldown struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	SellerID    string       `gorm:"size:64;not null;index:idx_cooldowns_seller_type,priority:1;uniqueIndex:idx_cooldowns_one_active,priority:1,where:is_active = true" json:"seller_id"`
	Type        CooldownType `gorm:"size:32;not null;index:idx_cooldowns_seller_type,priority:2;uniqueIndex:idx_cooldowns_one_active,priority:2,where:is_active = true" json:"type"`
	Severity    Severity     `gorm:"size:16;not null" json:"severity"`
	Description string       `json:"description"`
	StartDate   time.Time    `gorm:"not null" json:"start_date"`
	EndDate     time.Time    `gorm:"not null" json:"end_date"`
	IsActive    bool         `gorm:"not null" json:"is_active"`
	TriggeredBy string       `gorm:"size:64;not null" json:"triggered_by"`
	Appealable  bool         `gorm:"not null" json:"appealable"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (c *Cooldown) ActiveAt(now time.Time) bool {
	return c.IsActive && c.EndDate.After(now)
}
