package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

type ComponentScores struct {
	Delivery   float64 `json:"delivery"`
	Quality    float64 `json:"quality"`
	Behavior   float64 `json:"behavior"`
	Compliance float64 `json:"compliance"`
}

// RiskFactor explains one penalty's contribution to a score.
type RiskFactor struct {
	Type        PenaltyType `json:"type"`
	Description string      `json:"description"`
	Impact      float64     `json:"impact"`
	Severity    Severity    `json:"severity"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

type RiskFactors []RiskFactor

func (f RiskFactors) Value() (driver.Value, error) {
	if f == nil {
		f = RiskFactors{}
	}
	b, err := json.Marshal([]RiskFactor(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *RiskFactors) Scan(value interface{}) error {
	return scanJSON(value, f)
}

// RiskScore is the latest snapshot for a seller; one row per seller.
type RiskScore struct {
	SellerID        string          `gorm:"primaryKey;size:64" json:"seller_id"`
	OverallScore    float64         `gorm:"not null" json:"overall_score"`
	ComponentScores ComponentScores `gorm:"embedded;embeddedPrefix:component_" json:"component_scores"`
	RiskLevel       RiskLevel       `gorm:"size:16;not null" json:"risk_level"`
	Factors         RiskFactors     `gorm:"type:jsonb" json:"factors"`
	Trend           Trend           `gorm:"size:16;not null" json:"trend"`
	LastCalculated  time.Time       `gorm:"not null" json:"last_calculated"`
}

// SellerPerformance is maintained by the analytics pipeline.
type SellerPerformance struct {
	SellerID           string    `gorm:"primaryKey;size:64" json:"seller_id"`
	OnTimeDeliveryRate float64   `gorm:"not null" json:"on_time_delivery_rate"`
	AverageRating      float64   `json:"average_rating"`
	TotalSales         int64     `json:"total_sales"`
	DisputeRate        float64   `json:"dispute_rate"`
	UpdatedAt          time.Time `json:"updated_at"`
}
