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

// ApplyCooldown restricts a seller capability. An active cooldown of the
// same type is extended in place rather than duplicated.
func (s *service) ApplyCooldown(ctx context.Context, req CooldownRequest) (*models.Cooldown, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opApplyCooldown, time.Since(start)) }()

	if strings.TrimSpace(req.SellerID) == "" {
		return nil, s.fail(opApplyCooldown, req.SellerID, apperrors.ErrInvalidSeller)
	}
	if !req.Type.Valid() {
		return nil, s.fail(opApplyCooldown, req.SellerID, apperrors.ErrUnknownCooldownType.WithMessage(
			fmt.Sprintf("unknown cooldown type: %s", req.Type)))
	}
	if req.DurationDays <= 0 {
		return nil, s.fail(opApplyCooldown, req.SellerID, apperrors.ErrInvalidDuration)
	}
	if req.TriggeredBy == "" {
		req.TriggeredBy = models.CooldownTriggeredBySystem
	}

	now := s.now()
	var (
		cooldown *models.Cooldown
		created  bool
	)
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.PenaltyRepository) error {
		var err error
		cooldown, created, err = s.applyCooldown(ctx, tx, req, now)
		return err
	})
	if err != nil {
		return nil, s.fail(opApplyCooldown, req.SellerID, err)
	}

	s.invalidate(ctx, req.SellerID)
	s.metrics.RecordCooldownApplied(string(req.Type), !created)
	if created {
		s.publish(ctx, events.CooldownApplied, req.SellerID, CooldownAppliedEvent{Cooldown: cooldown, SellerID: req.SellerID})
	}

	s.logger.Info("cooldown applied",
		zap.String("seller_id", req.SellerID),
		zap.String("type", string(req.Type)),
		zap.Bool("extended", !created),
		zap.Time("end_date", cooldown.EndDate))

	return cooldown, nil
}

// applyCooldown runs inside the caller's transaction and reports whether a
// new row was created.
func (s *service) applyCooldown(ctx context.Context, tx repositories.PenaltyRepository, req CooldownRequest, now time.Time) (*models.Cooldown, bool, error) {
	candidateEnd := now.AddDate(0, 0, req.DurationDays)

	existing, err := tx.GetActiveCooldown(ctx, req.SellerID, req.Type, now)
	if err == nil {
		return s.extendCooldown(ctx, tx, existing, req, candidateEnd, now)
	}
	if !errors.Is(err, repositories.ErrCooldownNotFound) {
		return nil, false, err
	}

	if err := tx.DeactivateStaleCooldowns(ctx, req.SellerID, req.Type, now); err != nil {
		return nil, false, err
	}

	cooldown := &models.Cooldown{
		ID:          uuid.NewString(),
		SellerID:    req.SellerID,
		Type:        req.Type,
		Severity:    CooldownSeverity(req.Type),
		Description: req.Reason,
		StartDate:   now,
		EndDate:     candidateEnd,
		IsActive:    true,
		TriggeredBy: req.TriggeredBy,
		Appealable:  req.Appealable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = tx.CreateCooldown(ctx, cooldown)
	if errors.Is(err, repositories.ErrActiveCooldownExists) {
		// A concurrent application inserted first; extend its row instead.
		existing, err := tx.GetActiveCooldown(ctx, req.SellerID, req.Type, now)
		if err != nil {
			return nil, false, err
		}
		return s.extendCooldown(ctx, tx, existing, req, candidateEnd, now)
	}
	if err != nil {
		return nil, false, err
	}
	return cooldown, true, nil
}

func (s *service) extendCooldown(ctx context.Context, tx repositories.PenaltyRepository, existing *models.Cooldown, req CooldownRequest, candidateEnd, now time.Time) (*models.Cooldown, bool, error) {
	if candidateEnd.After(existing.EndDate) {
		existing.EndDate = candidateEnd
	}
	existing.Description += fmt.Sprintf(" (Extended: %s)", req.Reason)
	existing.UpdatedAt = now
	if err := tx.UpdateCooldown(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *service) ListActiveCooldowns(ctx context.Context, sellerID string) ([]models.Cooldown, error) {
	if strings.TrimSpace(sellerID) == "" {
		return nil, apperrors.ErrInvalidSeller
	}
	cooldowns, err := s.repo.ListActiveCooldowns(ctx, sellerID, s.now())
	if err != nil {
		return nil, s.fail(opListCooldowns, sellerID, err)
	}
	return cooldowns, nil
}
