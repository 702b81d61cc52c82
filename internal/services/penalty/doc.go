/*
Package penalty implements the seller risk and penalty engine.

The engine owns an immutable catalog of penalty rules (rules.yaml), records
penalties with a severity and history adjusted fine, escalates repeat or
serious violations into cooldowns, and keeps a composite risk score per
seller. Seller-action guards call CheckSellerPermissions before letting a
seller list, join auctions or receive payouts.

Usage:

	svc := penalty.NewService(repo, perfRepo, cache, publisher,
		penalty.MustDefaultCatalog(), penalty.Config{}, metrics, logger)

	// Record a violation
	p, err := svc.ApplyPenalty(ctx, sellerID, models.PenaltyLateDelivery, penalty.PenaltyDetails{})

	// Gate a seller action
	perms, err := svc.CheckSellerPermissions(ctx, sellerID)

Consistency:

A penalty, the cooldown it triggers and the recomputed risk score are
written in one database transaction. Events are published after commit;
a publish failure is logged and counted but does not fail the call.

Risk scores:

GetRiskScore serves the cached snapshot while it is younger than
Config.RiskScoreMaxAge and recomputes otherwise. Penalty and cooldown
writes refresh or invalidate the cache.
*/
package penalty
