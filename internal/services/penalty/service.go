package penalty

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "bidmart/internal/errors"
	"bidmart/internal/events"
	"bidmart/internal/models"
	"bidmart/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	repo        repositories.PenaltyRepository
	performance PerformanceProvider
	cache       RiskScoreCache
	publisher   events.Publisher
	catalog     *Catalog
	config      Config
	metrics     MetricsCollector
	logger      *zap.Logger
}

// NewService creates a new penalty engine. The performance provider and
// cache are optional; without a publisher events go to the log.
func NewService(
	repo repositories.PenaltyRepository,
	performance PerformanceProvider,
	cache RiskScoreCache,
	publisher events.Publisher,
	catalog *Catalog,
	config Config,
	metrics MetricsCollector,
	logger *zap.Logger,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if catalog == nil {
		panic("catalog is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	// Set default configuration values if not provided
	if config.RiskScoreMaxAge <= 0 {
		config.RiskScoreMaxAge = DefaultRiskScoreMaxAge
	}
	if config.HistoryWindow <= 0 {
		config.HistoryWindow = DefaultHistoryWindow
	}
	if config.ScoreWindow <= 0 {
		config.ScoreWindow = DefaultScoreWindow
	}
	if config.Now == nil {
		config.Now = func() time.Time { return time.Now().UTC() }
	}

	return &service{
		repo:        repo,
		performance: performance,
		cache:       cache,
		publisher:   publisher,
		catalog:     catalog,
		config:      config,
		metrics:     metrics,
		logger:      logger.Named("penalty"),
	}
}

func (s *service) now() time.Time {
	return s.config.Now().UTC()
}

func (s *service) Rules() []PenaltyRule {
	return s.catalog.Rules()
}

func (s *service) ApplyPenalty(ctx context.Context, sellerID string, penaltyType models.PenaltyType, details PenaltyDetails) (*models.Penalty, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opApplyPenalty, time.Since(start)) }()

	if strings.TrimSpace(sellerID) == "" {
		return nil, s.fail(opApplyPenalty, sellerID, apperrors.ErrInvalidSeller)
	}
	rule, ok := s.catalog.Rule(penaltyType)
	if !ok {
		return nil, s.fail(opApplyPenalty, sellerID, apperrors.ErrUnknownPenaltyType.WithMessage(
			fmt.Sprintf("unknown penalty type: %s", penaltyType)))
	}

	severity := rule.Severity
	if details.Severity != "" {
		if !details.Severity.Valid() {
			return nil, s.fail(opApplyPenalty, sellerID, apperrors.ErrInvalidSeverity)
		}
		severity = details.Severity
	}

	// Analytics data lives outside the penalty tables; read it before the
	// transaction so the transaction only touches its own connection.
	perf, err := s.sellerPerformance(ctx, sellerID)
	if err != nil {
		return nil, s.fail(opApplyPenalty, sellerID, err)
	}

	now := s.now()
	description := details.Description
	if description == "" {
		description = rule.Description
	}

	var (
		penalty     *models.Penalty
		newCooldown *models.Cooldown
		score       *models.RiskScore
	)
	err = s.repo.ExecuteInTransaction(ctx, func(tx repositories.PenaltyRepository) error {
		amount, err := s.calculateAmount(ctx, tx, sellerID, rule.BaseAmount, severity, now)
		if err != nil {
			return err
		}

		penalty = &models.Penalty{
			ID:               uuid.NewString(),
			SellerID:         sellerID,
			Type:             rule.Type,
			Severity:         severity,
			Description:      description,
			Amount:           amount,
			Status:           models.PenaltyStatusActive,
			RelatedAuctionID: details.RelatedAuctionID,
			RelatedBidID:     details.RelatedBidID,
			Evidence:         models.StringList(details.Evidence),
			ReportedBy:       details.ReportedBy,
			Automated:        details.ReportedBy == "",
			CreatedAt:        now,
			ExpiresAt:        now.AddDate(0, 0, rule.DurationDays),
			UpdatedAt:        now,
		}
		if err := tx.CreatePenalty(ctx, penalty); err != nil {
			return err
		}

		if rule.TriggersCooldown {
			cd, created, err := s.applyCooldown(ctx, tx, CooldownRequest{
				SellerID:     sellerID,
				Type:         rule.CooldownType,
				DurationDays: rule.CooldownDays,
				Reason:       fmt.Sprintf("Automatic cooldown due to %s penalty", rule.Type),
				TriggeredBy:  penalty.ID,
				Appealable:   true,
			}, now)
			if err != nil {
				return err
			}
			if created {
				newCooldown = cd
			}
		}

		score, err = s.recalculate(ctx, tx, sellerID, perf, now)
		return err
	})
	if err != nil {
		return nil, s.fail(opApplyPenalty, sellerID, err)
	}

	s.storeScore(ctx, score)
	s.metrics.RecordPenaltyApplied(string(penalty.Type), string(penalty.Severity), penalty.Amount)
	s.metrics.RecordRiskScore(string(score.RiskLevel))
	s.metrics.RecordOperationResult(opApplyPenalty, "success")

	if rule.TriggersCooldown {
		s.metrics.RecordCooldownApplied(string(rule.CooldownType), newCooldown == nil)
	}
	if newCooldown != nil {
		s.publish(ctx, events.CooldownApplied, sellerID, CooldownAppliedEvent{Cooldown: newCooldown, SellerID: sellerID})
	}
	s.publish(ctx, events.PenaltyApplied, sellerID, PenaltyAppliedEvent{
		Penalty:  penalty,
		SellerID: sellerID,
		Type:     penalty.Type,
		Amount:   penalty.Amount,
	})

	s.logger.Info("penalty applied",
		zap.String("seller_id", sellerID),
		zap.String("penalty_id", penalty.ID),
		zap.String("type", string(penalty.Type)),
		zap.Int64("amount", penalty.Amount),
		zap.Float64("risk_score", score.OverallScore))

	return penalty, nil
}

// CalculatePenaltyAmount prices a fine for the seller's current history.
func (s *service) CalculatePenaltyAmount(ctx context.Context, sellerID string, baseAmount int64, severity models.Severity) (int64, error) {
	if !severity.Valid() {
		return 0, apperrors.ErrInvalidSeverity
	}
	if baseAmount <= 0 {
		return 0, apperrors.ErrInvalidAmount
	}
	amount, err := s.calculateAmount(ctx, s.repo, sellerID, baseAmount, severity, s.now())
	if err != nil {
		return 0, s.fail(opCalculateAmount, sellerID, err)
	}
	return amount, nil
}

func (s *service) calculateAmount(ctx context.Context, repo repositories.PenaltyRepository, sellerID string, baseAmount int64, severity models.Severity, now time.Time) (int64, error) {
	count, err := repo.CountPenaltiesSince(ctx, sellerID, now.Add(-s.config.HistoryWindow))
	if err != nil {
		return 0, err
	}
	return FineAmount(baseAmount, severity, count), nil
}

func (s *service) GetPenalty(ctx context.Context, penaltyID string) (*models.Penalty, error) {
	p, err := s.repo.GetPenaltyByID(ctx, penaltyID)
	if errors.Is(err, repositories.ErrPenaltyNotFound) {
		return nil, apperrors.ErrPenaltyNotFound
	}
	if err != nil {
		return nil, s.fail(opGetPenalty, "", err)
	}
	return p, nil
}

func (s *service) ListPenalties(ctx context.Context, sellerID string) ([]models.Penalty, error) {
	if strings.TrimSpace(sellerID) == "" {
		return nil, apperrors.ErrInvalidSeller
	}
	penalties, err := s.repo.ListPenalties(ctx, sellerID)
	if err != nil {
		return nil, s.fail(opListPenalties, sellerID, err)
	}
	return penalties, nil
}

// AppealPenalty acknowledges an appeal. The penalty itself is left as is;
// review happens outside the engine.
func (s *service) AppealPenalty(ctx context.Context, penaltyID, reason string, evidence []string) (*AppealResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.ErrAppealReasonRequired
	}

	p, err := s.repo.GetPenaltyByID(ctx, penaltyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPenaltyNotFound) {
			return nil, apperrors.ErrPenaltyNotFound
		}
		return nil, s.fail(opAppeal, "", err)
	}

	s.logger.Info("penalty appeal received",
		zap.String("penalty_id", p.ID),
		zap.String("seller_id", p.SellerID),
		zap.Int("evidence_items", len(evidence)))
	s.metrics.RecordOperationResult(opAppeal, "received")

	return &AppealResult{
		Success:     true,
		PenaltyID:   p.ID,
		Message:     "Appeal submitted successfully and will be reviewed",
		SubmittedAt: s.now(),
	}, nil
}

// ExpireRecords flips penalties and cooldowns whose window has passed and
// drops the affected sellers' cached scores.
func (s *service) ExpireRecords(ctx context.Context) (*ExpiryResult, error) {
	now := s.now()

	penaltySellers, err := s.repo.ExpirePenalties(ctx, now)
	if err != nil {
		return nil, s.fail(opExpire, "", err)
	}
	cooldownSellers, err := s.repo.ExpireCooldowns(ctx, now)
	if err != nil {
		return nil, s.fail(opExpire, "", err)
	}

	s.invalidate(ctx, append(penaltySellers, cooldownSellers...)...)
	s.metrics.RecordExpired("penalty", len(penaltySellers))
	s.metrics.RecordExpired("cooldown", len(cooldownSellers))

	return &ExpiryResult{
		PenaltySellers:  len(penaltySellers),
		CooldownSellers: len(cooldownSellers),
	}, nil
}

// fail logs err with its context and returns what the caller should see:
// client errors unchanged, everything else wrapped as an internal error.
func (s *service) fail(operation, sellerID string, err error) error {
	if apperrors.IsClientError(err) {
		s.metrics.RecordError(operation, "validation")
		s.logger.Debug("request rejected",
			zap.String("operation", operation),
			zap.String("seller_id", sellerID),
			zap.Error(err))
		return err
	}

	s.metrics.RecordError(operation, "internal")
	s.logger.Error("operation failed",
		zap.String("operation", operation),
		zap.String("seller_id", sellerID),
		zap.Error(err))
	return fmt.Errorf("%s: %w: %w", operation, apperrors.ErrInternal, err)
}

func (s *service) publish(ctx context.Context, name, key string, payload interface{}) {
	evt := events.Event{
		Name:       name,
		Key:        key,
		OccurredAt: s.now(),
		Payload:    payload,
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.metrics.RecordEventPublishFailure(name)
		s.logger.Warn("failed to publish event",
			zap.String("event", name),
			zap.String("seller_id", key),
			zap.Error(err))
	}
}
