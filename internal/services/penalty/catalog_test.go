package penalty

import (
	"strings"
	"testing"

	"bidmart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	rules := c.Rules()
	require.Len(t, rules, len(models.AllPenaltyTypes))
	for i := 1; i < len(rules); i++ {
		assert.Less(t, rules[i-1].Type, rules[i].Type)
	}

	tests := []struct {
		penaltyType  models.PenaltyType
		severity     models.Severity
		base         int64
		days         int
		cooldown     models.CooldownType
		cooldownDays int
	}{
		{models.PenaltyLateDelivery, models.SeverityLow, 500, 30, "", 0},
		{models.PenaltyNonDelivery, models.SeverityHigh, 2000, 90, models.CooldownListingBan, 7},
		{models.PenaltyFakeProduct, models.SeverityCritical, 5000, 180, models.CooldownListingBan, 30},
		{models.PenaltyMisdescription, models.SeverityMedium, 1000, 60, "", 0},
		{models.PenaltyPoorQuality, models.SeverityMedium, 750, 60, "", 0},
		{models.PenaltyFraud, models.SeverityCritical, 10000, 365, models.CooldownAccountSuspension, 90},
		{models.PenaltySystemAbuse, models.SeverityHigh, 3000, 90, models.CooldownFeatureRestriction, 14},
		{models.PenaltyInappropriateContent, models.SeverityMedium, 1000, 60, models.CooldownReviewRequired, 3},
		{models.PenaltyShillBidding, models.SeverityHigh, 5000, 180, models.CooldownAuctionBan, 30},
		{models.PenaltyBidRetraction, models.SeverityLow, 250, 30, "", 0},
		{models.PenaltyPaymentDefault, models.SeverityHigh, 2500, 90, models.CooldownAuctionBan, 14},
		{models.PenaltyFeeEvasion, models.SeverityHigh, 4000, 180, models.CooldownReviewRequired, 7},
	}
	for _, tt := range tests {
		t.Run(string(tt.penaltyType), func(t *testing.T) {
			r, ok := c.Rule(tt.penaltyType)
			require.True(t, ok)
			assert.Equal(t, tt.severity, r.Severity)
			assert.Equal(t, tt.base, r.BaseAmount)
			assert.Equal(t, tt.days, r.DurationDays)
			assert.Equal(t, tt.cooldown != "", r.TriggersCooldown)
			assert.Equal(t, tt.cooldown, r.CooldownType)
			assert.Equal(t, tt.cooldownDays, r.CooldownDays)
			assert.NotEmpty(t, r.Description)
		})
	}

	_, ok := c.Rule("parking_violation")
	assert.False(t, ok)
}

func TestCatalog_RulesReturnsCopy(t *testing.T) {
	c := MustDefaultCatalog()
	rules := c.Rules()
	rules[0].BaseAmount = 1

	again := c.Rules()
	assert.NotEqual(t, int64(1), again[0].BaseAmount)
}

func TestParseCatalog_Rejects(t *testing.T) {
	valid := string(defaultRules)

	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "rules: [\n"},
		{"duplicate type", strings.Replace(valid, "type: fee_evasion", "type: fraud", 1)},
		{"unknown type", strings.Replace(valid, "type: fee_evasion", "type: loitering", 1)},
		{"cooldown type without trigger", strings.Replace(valid,
			"triggers_cooldown: false\n    description: Order shipped",
			"triggers_cooldown: false\n    cooldown_type: listing_ban\n    description: Order shipped", 1)},
		{"trigger without cooldown type", strings.Replace(valid, "cooldown_type: account_suspension", "cooldown_type: time_out", 1)},
		{"invalid severity", strings.Replace(valid, "severity: low", "severity: mild", 1)},
		{"empty", "rules: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseCatalog_ValidationErrorsWrapSentinel(t *testing.T) {
	_, err := ParseCatalog([]byte("rules: []"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
