package penalty

import (
	"time"

	"bidmart/internal/models"

	"github.com/shopspring/decimal"
)

// Fine multipliers scale the base amount by severity. They are currency
// factors and deliberately differ from the score impact weights below.
var fineMultipliers = map[models.Severity]decimal.Decimal{
	models.SeverityLow:      decimal.RequireFromString("0.5"),
	models.SeverityMedium:   decimal.NewFromInt(1),
	models.SeverityHigh:     decimal.RequireFromString("1.5"),
	models.SeverityCritical: decimal.NewFromInt(2),
}

// Impact weights are the points a penalty removes from a component score.
var impactWeights = map[models.Severity]float64{
	models.SeverityLow:      2,
	models.SeverityMedium:   5,
	models.SeverityHigh:     10,
	models.SeverityCritical: 25,
}

var (
	maxHistoryMultiplier = decimal.NewFromInt(2)
	historyStep          = decimal.RequireFromString("0.1")

	weightDelivery   = decimal.RequireFromString("0.30")
	weightQuality    = decimal.RequireFromString("0.30")
	weightBehavior   = decimal.RequireFromString("0.25")
	weightCompliance = decimal.RequireFromString("0.15")
)

var (
	deliveryTypes = map[models.PenaltyType]bool{
		models.PenaltyLateDelivery: true,
		models.PenaltyNonDelivery:  true,
	}
	qualityTypes = map[models.PenaltyType]bool{
		models.PenaltyFakeProduct:    true,
		models.PenaltyMisdescription: true,
		models.PenaltyPoorQuality:    true,
	}
	behaviorTypes = map[models.PenaltyType]bool{
		models.PenaltyFraud:                true,
		models.PenaltySystemAbuse:          true,
		models.PenaltyInappropriateContent: true,
	}
)

const (
	trendThreshold = 5.0

	// History volume thresholds for the compliance deduction.
	historyWarnCount     = 5
	historyWarnDeduction = 10
	historyHighCount     = 10
	historyHighDeduction = 15
)

// HistoryMultiplier is the repeat-offender surcharge: 1 + 0.1 per prior
// penalty in the window, capped at 2.
func HistoryMultiplier(historyCount int64) decimal.Decimal {
	if historyCount < 0 {
		historyCount = 0
	}
	m := decimal.NewFromInt(1).Add(historyStep.Mul(decimal.NewFromInt(historyCount)))
	if m.GreaterThan(maxHistoryMultiplier) {
		return maxHistoryMultiplier
	}
	return m
}

// FineAmount computes base x history multiplier x severity multiplier,
// rounded half away from zero to a whole minor unit.
func FineAmount(baseAmount int64, severity models.Severity, historyCount int64) int64 {
	sev, ok := fineMultipliers[severity]
	if !ok {
		sev = decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(baseAmount).
		Mul(HistoryMultiplier(historyCount)).
		Mul(sev).
		Round(0).
		IntPart()
}

// Impact returns the score impact of a penalty with the given severity.
func Impact(severity models.Severity) float64 {
	return impactWeights[severity]
}

// RiskLevelFor maps an overall score to its tier; each lower bound is inclusive.
func RiskLevelFor(score float64) models.RiskLevel {
	switch {
	case score >= 80:
		return models.RiskLevelLow
	case score >= 60:
		return models.RiskLevelMedium
	case score >= 40:
		return models.RiskLevelHigh
	default:
		return models.RiskLevelCritical
	}
}

// TrendFor compares a new overall score with the previous snapshot.
func TrendFor(current float64, previous *models.RiskScore) models.Trend {
	if previous == nil {
		return models.TrendStable
	}
	diff := current - previous.OverallScore
	switch {
	case diff > trendThreshold:
		return models.TrendImproving
	case diff < -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// ScoreInput carries what a risk score is derived from.
type ScoreInput struct {
	SellerID    string
	Active      []models.Penalty
	History     []models.Penalty
	Performance *models.SellerPerformance
	Previous    *models.RiskScore
	Now         time.Time
}

// ComputeRiskScore derives a snapshot from penalties and performance. It
// performs no I/O.
func ComputeRiskScore(in ScoreInput) *models.RiskScore {
	onTimeRate := 1.0
	if in.Performance != nil {
		onTimeRate = clampRate(in.Performance.OnTimeDeliveryRate)
	}

	delivery := clampScore(clampScore(100-categoryImpact(in.History, deliveryTypes)) * onTimeRate)
	quality := clampScore(100 - categoryImpact(in.History, qualityTypes))
	behavior := clampScore(100 - categoryImpact(in.History, behaviorTypes))

	compliance := 100.0
	for _, p := range in.Active {
		compliance -= Impact(p.Severity)
	}
	if len(in.History) > historyWarnCount {
		compliance -= historyWarnDeduction
	}
	if len(in.History) > historyHighCount {
		compliance -= historyHighDeduction
	}
	compliance = clampScore(compliance)

	overall, _ := decimal.NewFromFloat(delivery).Mul(weightDelivery).
		Add(decimal.NewFromFloat(quality).Mul(weightQuality)).
		Add(decimal.NewFromFloat(behavior).Mul(weightBehavior)).
		Add(decimal.NewFromFloat(compliance).Mul(weightCompliance)).
		Round(0).
		Float64()
	overall = clampScore(overall)

	factors := make(models.RiskFactors, 0, len(in.History))
	for _, p := range in.History {
		factors = append(factors, models.RiskFactor{
			Type:        p.Type,
			Description: p.Description,
			Impact:      Impact(p.Severity),
			Severity:    p.Severity,
			OccurredAt:  p.CreatedAt,
		})
	}

	return &models.RiskScore{
		SellerID:     in.SellerID,
		OverallScore: overall,
		ComponentScores: models.ComponentScores{
			Delivery:   delivery,
			Quality:    quality,
			Behavior:   behavior,
			Compliance: compliance,
		},
		RiskLevel:      RiskLevelFor(overall),
		Factors:        factors,
		Trend:          TrendFor(overall, in.Previous),
		LastCalculated: in.Now,
	}
}

func categoryImpact(penalties []models.Penalty, types map[models.PenaltyType]bool) float64 {
	var total float64
	for _, p := range penalties {
		if types[p.Type] {
			total += Impact(p.Severity)
		}
	}
	return total
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampRate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
