package cache

import (
	"context"

	"bidmart/internal/models"
)

func (s *CacheService) riskScoreKey(sellerID string) string {
	return s.GenerateKey("risk_score", "seller", sellerID)
}

// GetRiskScore returns the cached snapshot, or nil when absent.
func (s *CacheService) GetRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error) {
	var score models.RiskScore
	found, err := s.Get(ctx, s.riskScoreKey(sellerID), &score)
	if err != nil || !found {
		return nil, err
	}
	return &score, nil
}

func (s *CacheService) SetRiskScore(ctx context.Context, score *models.RiskScore) error {
	return s.Set(ctx, s.riskScoreKey(score.SellerID), score)
}

func (s *CacheService) InvalidateRiskScores(ctx context.Context, sellerIDs ...string) error {
	keys := make([]string, 0, len(sellerIDs))
	for _, id := range sellerIDs {
		keys = append(keys, s.riskScoreKey(id))
	}
	return s.Delete(ctx, keys...)
}
