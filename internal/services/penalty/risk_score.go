package penalty

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "bidmart/internal/errors"
	"bidmart/internal/models"
	"bidmart/internal/repositories"

	"go.uber.org/zap"
)

// CalculateRiskScore recomputes the seller's score from scratch, stores
// the snapshot and refreshes the cache.
func (s *service) CalculateRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opCalculateScore, time.Since(start)) }()

	if strings.TrimSpace(sellerID) == "" {
		return nil, apperrors.ErrInvalidSeller
	}

	perf, err := s.sellerPerformance(ctx, sellerID)
	if err != nil {
		return nil, s.fail(opCalculateScore, sellerID, err)
	}

	now := s.now()
	var score *models.RiskScore
	err = s.repo.ExecuteInTransaction(ctx, func(tx repositories.PenaltyRepository) error {
		var err error
		score, err = s.recalculate(ctx, tx, sellerID, perf, now)
		return err
	})
	if err != nil {
		return nil, s.fail(opCalculateScore, sellerID, err)
	}

	s.storeScore(ctx, score)
	s.metrics.RecordRiskScore(string(score.RiskLevel))
	return score, nil
}

// GetRiskScore returns the cached snapshot while it is fresh and
// recomputes otherwise.
func (s *service) GetRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error) {
	if strings.TrimSpace(sellerID) == "" {
		return nil, apperrors.ErrInvalidSeller
	}
	if s.cache == nil {
		return s.CalculateRiskScore(ctx, sellerID)
	}

	cached, err := s.cache.GetRiskScore(ctx, sellerID)
	switch {
	case err != nil:
		s.metrics.RecordCacheLookup("error")
		s.logger.Warn("risk score cache read failed",
			zap.String("operation", opGetScore),
			zap.String("seller_id", sellerID),
			zap.Error(err))
	case cached == nil:
		s.metrics.RecordCacheLookup("miss")
	case s.now().Sub(cached.LastCalculated) >= s.config.RiskScoreMaxAge:
		s.metrics.RecordCacheLookup("stale")
	default:
		s.metrics.RecordCacheLookup("hit")
		return cached, nil
	}

	return s.CalculateRiskScore(ctx, sellerID)
}

func (s *service) recalculate(ctx context.Context, repo repositories.PenaltyRepository, sellerID string, perf *models.SellerPerformance, now time.Time) (*models.RiskScore, error) {
	active, err := repo.ListActivePenalties(ctx, sellerID, now)
	if err != nil {
		return nil, err
	}
	history, err := repo.ListPenaltiesSince(ctx, sellerID, now.Add(-s.config.ScoreWindow))
	if err != nil {
		return nil, err
	}
	previous, err := repo.GetRiskScore(ctx, sellerID)
	if err != nil {
		if !errors.Is(err, repositories.ErrRiskScoreNotFound) {
			return nil, err
		}
		previous = nil
	}

	score := ComputeRiskScore(ScoreInput{
		SellerID:    sellerID,
		Active:      active,
		History:     history,
		Performance: perf,
		Previous:    previous,
		Now:         now,
	})
	if err := repo.SaveRiskScore(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *service) sellerPerformance(ctx context.Context, sellerID string) (*models.SellerPerformance, error) {
	if s.performance == nil {
		return nil, nil
	}
	return s.performance.GetBySellerID(ctx, sellerID)
}

func (s *service) storeScore(ctx context.Context, score *models.RiskScore) {
	if s.cache == nil || score == nil {
		return
	}
	if err := s.cache.SetRiskScore(ctx, score); err != nil {
		s.logger.Warn("failed to cache risk score",
			zap.String("seller_id", score.SellerID),
			zap.Error(err))
	}
}

func (s *service) invalidate(ctx context.Context, sellerIDs ...string) {
	if s.cache == nil || len(sellerIDs) == 0 {
		return
	}
	if err := s.cache.InvalidateRiskScores(ctx, sellerIDs...); err != nil {
		s.logger.Warn("failed to invalidate cached risk scores",
			zap.Strings("seller_ids", sellerIDs),
			zap.Error(err))
	}
}
