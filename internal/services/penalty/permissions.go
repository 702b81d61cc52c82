package penalty

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "bidmart/internal/errors"
	"bidmart/internal/models"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// CheckSellerPermissions evaluates the listing, auction and payout gates.
func (s *service) CheckSellerPermissions(ctx context.Context, sellerID string) (*PermissionCheckResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opCheckPermissions, time.Since(start)) }()

	if strings.TrimSpace(sellerID) == "" {
		return nil, apperrors.ErrInvalidSeller
	}

	now := s.now()
	cooldowns, err := s.repo.ListActiveCooldowns(ctx, sellerID, now)
	if err != nil {
		return nil, s.fail(opCheckPermissions, sellerID, err)
	}
	penalties, err := s.repo.ListActivePenalties(ctx, sellerID, now)
	if err != nil {
		return nil, s.fail(opCheckPermissions, sellerID, err)
	}
	score, err := s.GetRiskScore(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	result := evaluatePermissions(sellerID, cooldowns, penalties, score.RiskLevel, now)

	s.logger.Debug("seller permissions checked",
		zap.String("seller_id", sellerID),
		zap.Bool("can_list", result.CanListProducts.Allowed),
		zap.Bool("can_auction", result.CanParticipateInAuctions.Allowed),
		zap.Bool("can_receive_payments", result.CanReceivePayments.Allowed))

	return result, nil
}

func evaluatePermissions(sellerID string, cooldowns []models.Cooldown, penalties []models.Penalty, level models.RiskLevel, now time.Time) *PermissionCheckResult {
	active := make(map[models.CooldownType]*models.Cooldown, len(cooldowns))
	for i := range cooldowns {
		c := &cooldowns[i]
		if !c.ActiveAt(now) {
			continue
		}
		if prev, ok := active[c.Type]; !ok || c.EndDate.After(prev.EndDate) {
			active[c.Type] = c
		}
	}

	criticalPenalties := 0
	for i := range penalties {
		if penalties[i].ActiveAt(now) && penalties[i].Severity == models.SeverityCritical {
			criticalPenalties++
		}
	}

	listingBan := active[models.CooldownListingBan]
	auctionBan := active[models.CooldownAuctionBan]
	suspension := active[models.CooldownAccountSuspension]

	result := &PermissionCheckResult{
		SellerID:                 sellerID,
		CanListProducts:          PermissionGate{Allowed: true},
		CanParticipateInAuctions: PermissionGate{Allowed: true},
		CanReceivePayments:       PermissionGate{Allowed: true},
		Restrictions:             []string{},
		RiskLevel:                level,
		CheckedAt:                now,
	}

	switch {
	case listingBan != nil:
		result.CanListProducts = deny(fmt.Sprintf("Listing ban active until %s", listingBan.EndDate.Format(dateLayout)), listingBan)
	case suspension != nil:
		result.CanListProducts = deny(fmt.Sprintf("Account suspended until %s", suspension.EndDate.Format(dateLayout)), suspension)
	}

	switch {
	case auctionBan != nil:
		result.CanParticipateInAuctions = deny(fmt.Sprintf("Auction ban active until %s", auctionBan.EndDate.Format(dateLayout)), auctionBan)
	case suspension != nil:
		result.CanParticipateInAuctions = deny(fmt.Sprintf("Account suspended until %s", suspension.EndDate.Format(dateLayout)), suspension)
	case level == models.RiskLevelCritical:
		result.CanParticipateInAuctions = deny("Risk level is critical", nil)
	}

	switch {
	case suspension != nil:
		result.CanReceivePayments = deny(fmt.Sprintf("Account suspended until %s", suspension.EndDate.Format(dateLayout)), suspension)
	case criticalPenalties > 0:
		result.CanReceivePayments = deny(fmt.Sprintf("%d active critical penalties", criticalPenalties), nil)
	}

	if !result.CanListProducts.Allowed {
		result.Restrictions = append(result.Restrictions, "Cannot list products: "+result.CanListProducts.Reason)
	}
	if !result.CanParticipateInAuctions.Allowed {
		result.Restrictions = append(result.Restrictions, "Cannot participate in auctions: "+result.CanParticipateInAuctions.Reason)
	}
	if !result.CanReceivePayments.Allowed {
		result.Restrictions = append(result.Restrictions, "Cannot receive payments: "+result.CanReceivePayments.Reason)
	}

	return result
}

func deny(reason string, cause *models.Cooldown) PermissionGate {
	gate := PermissionGate{Allowed: false, Reason: reason}
	if cause != nil {
		end := cause.EndDate
		gate.CooldownEnd = &end
	}
	return gate
}
