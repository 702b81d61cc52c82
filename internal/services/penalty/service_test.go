package penalty

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	apperrors "bidmart/internal/errors"
	"bidmart/internal/events"
	"bidmart/internal/models"
	"bidmart/internal/repositories"
	"bidmart/internal/repositories/cache"
	"bidmart/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc       Service
	repo      repositories.PenaltyRepository
	perf      repositories.PerformanceRepository
	cache     *cache.CacheService
	redis     *miniredis.Miniredis
	publisher *testutil.EventRecorder
	clock     *testutil.Clock
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	return setupServiceWithRepo(t, nil)
}

func setupServiceWithRepo(t *testing.T, wrap func(repositories.PenaltyRepository) repositories.PenaltyRepository) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	cacheSvc, mr := testutil.NewCache(t)
	f := &fixture{
		repo:      repositories.NewPenaltyRepository(db),
		perf:      repositories.NewPerformanceRepository(db),
		cache:     cacheSvc,
		redis:     mr,
		publisher: &testutil.EventRecorder{},
		clock:     testutil.NewClock(testNow),
	}

	repo := f.repo
	if wrap != nil {
		repo = wrap(repo)
	}
	f.svc = NewService(repo, f.perf, f.cache, f.publisher, MustDefaultCatalog(),
		Config{Now: f.clock.Time}, nil, nil)
	return f
}

func (f *fixture) seedPenalty(t *testing.T, sellerID string, pt models.PenaltyType, sev models.Severity, createdAt time.Time, days int) *models.Penalty {
	t.Helper()
	p := &models.Penalty{
		ID:        uuid.NewString(),
		SellerID:  sellerID,
		Type:      pt,
		Severity:  sev,
		Amount:    100,
		Status:    models.PenaltyStatusActive,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.AddDate(0, 0, days),
	}
	require.NoError(t, f.repo.CreatePenalty(context.Background(), p))
	return p
}

func TestNewService_PanicsWithoutRequiredDeps(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, nil, nil, nil, MustDefaultCatalog(), Config{}, nil, nil) })

	db := testutil.NewDB(t)
	assert.Panics(t, func() {
		NewService(repositories.NewPenaltyRepository(db), nil, nil, nil, nil, Config{}, nil, nil)
	})
}

func TestApplyPenalty_FirstLateDelivery(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	p, err := f.svc.ApplyPenalty(ctx, "seller-1", models.PenaltyLateDelivery, PenaltyDetails{})
	require.NoError(t, err)

	assert.Equal(t, int64(250), p.Amount)
	assert.Equal(t, models.SeverityLow, p.Severity)
	assert.Equal(t, models.PenaltyStatusActive, p.Status)
	assert.True(t, p.Automated)
	assert.True(t, testNow.AddDate(0, 0, 30).Equal(p.ExpiresAt))
	assert.NotEmpty(t, p.Description)

	cooldowns, err := f.svc.ListActiveCooldowns(ctx, "seller-1")
	require.NoError(t, err)
	assert.Empty(t, cooldowns)

	score, err := f.repo.GetRiskScore(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, 98.0, score.ComponentScores.Delivery)
	assert.Equal(t, 98.0, score.ComponentScores.Compliance)
	assert.Equal(t, 99.0, score.OverallScore)
	assert.Equal(t, models.RiskLevelLow, score.RiskLevel)
	require.Len(t, score.Factors, 1)

	assert.Equal(t, []string{events.PenaltyApplied}, f.publisher.Names())
	payload, ok := f.publisher.Events()[0].Payload.(PenaltyAppliedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(250), payload.Amount)
	assert.Equal(t, "seller-1", payload.SellerID)
	assert.Equal(t, "seller-1", f.publisher.Events()[0].Key)

	assert.True(t, f.redis.Exists("risk_score:seller:seller-1"))
}

func TestApplyPenalty_RepeatFraudIsCappedAndSuspends(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		f.seedPenalty(t, "seller-2", models.PenaltyBidRetraction, models.SeverityLow, testNow.AddDate(0, 0, -(100 + i*10)), 30)
	}

	p, err := f.svc.ApplyPenalty(ctx, "seller-2", models.PenaltyFraud, PenaltyDetails{})
	require.NoError(t, err)
	assert.Equal(t, int64(40000), p.Amount)

	cooldowns, err := f.svc.ListActiveCooldowns(ctx, "seller-2")
	require.NoError(t, err)
	require.Len(t, cooldowns, 1)
	cd := cooldowns[0]
	assert.Equal(t, models.CooldownAccountSuspension, cd.Type)
	assert.Equal(t, models.SeverityCritical, cd.Severity)
	assert.Equal(t, p.ID, cd.TriggeredBy)
	assert.True(t, cd.Appealable)
	assert.Equal(t, "Automatic cooldown due to fraud penalty", cd.Description)
	assert.True(t, testNow.AddDate(0, 0, 90).Equal(cd.EndDate))

	assert.Equal(t, []string{events.CooldownApplied, events.PenaltyApplied}, f.publisher.Names())

	perms, err := f.svc.CheckSellerPermissions(ctx, "seller-2")
	require.NoError(t, err)
	assert.False(t, perms.CanListProducts.Allowed)
	assert.False(t, perms.CanParticipateInAuctions.Allowed)
	assert.False(t, perms.CanReceivePayments.Allowed)
	assert.Len(t, perms.Restrictions, 3)
	require.NotNil(t, perms.CanReceivePayments.CooldownEnd)
	assert.True(t, cd.EndDate.Equal(*perms.CanReceivePayments.CooldownEnd))
}

func TestApplyPenalty_DetailsOverride(t *testing.T) {
	f := setupService(t)

	p, err := f.svc.ApplyPenalty(context.Background(), "seller-3", models.PenaltyLateDelivery, PenaltyDetails{
		Severity:         models.SeverityCritical,
		Description:      "Shipped 12 days late",
		RelatedAuctionID: "auction-9",
		Evidence:         []string{"tracking.pdf"},
		ReportedBy:       "buyer-7",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), p.Amount)
	assert.Equal(t, models.SeverityCritical, p.Severity)
	assert.False(t, p.Automated)
	assert.Equal(t, "Shipped 12 days late", p.Description)

	stored, err := f.svc.ListPenalties(context.Background(), "seller-3")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "auction-9", stored[0].RelatedAuctionID)
	assert.Equal(t, models.StringList{"tracking.pdf"}, stored[0].Evidence)
	assert.Equal(t, "buyer-7", stored[0].ReportedBy)
}

func TestApplyPenalty_Validation(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		sellerID    string
		penaltyType models.PenaltyType
		details     PenaltyDetails
		wantErr     error
	}{
		{"unknown type", "seller-1", "jaywalking", PenaltyDetails{}, apperrors.ErrUnknownPenaltyType},
		{"invalid severity override", "seller-1", models.PenaltyFraud, PenaltyDetails{Severity: "extreme"}, apperrors.ErrInvalidSeverity},
		{"missing seller", " ", models.PenaltyFraud, PenaltyDetails{}, apperrors.ErrInvalidSeller},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ApplyPenalty(ctx, tt.sellerID, tt.penaltyType, tt.details)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
		})
	}

	penalties, err := f.repo.ListPenalties(ctx, "seller-1")
	require.NoError(t, err)
	assert.Empty(t, penalties)
	assert.Empty(t, f.publisher.Names())
}

// failingRepo fails risk score writes, including inside transactions.
type failingRepo struct {
	repositories.PenaltyRepository
}

func (r failingRepo) SaveRiskScore(context.Context, *models.RiskScore) error {
	return errors.New("disk full")
}

func (r failingRepo) ExecuteInTransaction(ctx context.Context, fn func(repositories.PenaltyRepository) error) error {
	return r.PenaltyRepository.ExecuteInTransaction(ctx, func(tx repositories.PenaltyRepository) error {
		return fn(failingRepo{tx})
	})
}

func TestApplyPenalty_RollsBackOnFailure(t *testing.T) {
	f := setupServiceWithRepo(t, func(r repositories.PenaltyRepository) repositories.PenaltyRepository {
		return failingRepo{r}
	})
	ctx := context.Background()

	_, err := f.svc.ApplyPenalty(ctx, "seller-4", models.PenaltyNonDelivery, PenaltyDetails{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))

	penalties, err := f.repo.ListPenalties(ctx, "seller-4")
	require.NoError(t, err)
	assert.Empty(t, penalties)

	cooldowns, err := f.repo.ListActiveCooldowns(ctx, "seller-4", testNow)
	require.NoError(t, err)
	assert.Empty(t, cooldowns)
	assert.Empty(t, f.publisher.Names())
}

func TestApplyPenalty_PublishFailureDoesNotFail(t *testing.T) {
	f := setupService(t)
	f.publisher.Err = errors.New("broker down")

	p, err := f.svc.ApplyPenalty(context.Background(), "seller-5", models.PenaltyPoorQuality, PenaltyDetails{})
	require.NoError(t, err)
	assert.Equal(t, int64(750), p.Amount)
}

func TestCalculatePenaltyAmount(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	amount, err := f.svc.CalculatePenaltyAmount(ctx, "seller-6", 1000, models.SeverityHigh)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), amount)

	// Only the trailing year counts towards the surcharge.
	f.seedPenalty(t, "seller-6", models.PenaltyMisdescription, models.SeverityMedium, testNow.AddDate(0, 0, -10), 60)
	f.seedPenalty(t, "seller-6", models.PenaltyMisdescription, models.SeverityMedium, testNow.AddDate(0, 0, -400), 60)

	amount, err = f.svc.CalculatePenaltyAmount(ctx, "seller-6", 1000, models.SeverityHigh)
	require.NoError(t, err)
	assert.Equal(t, int64(1650), amount)

	_, err = f.svc.CalculatePenaltyAmount(ctx, "seller-6", 1000, "mild")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSeverity)
	_, err = f.svc.CalculatePenaltyAmount(ctx, "seller-6", 0, models.SeverityLow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestApplyCooldown_ExtendsInsteadOfDuplicating(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	first, err := f.svc.ApplyCooldown(ctx, CooldownRequest{
		SellerID: "seller-7", Type: models.CooldownAuctionBan, DurationDays: 10, Reason: "Payment default",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityHigh, first.Severity)
	assert.Equal(t, models.CooldownTriggeredBySystem, first.TriggeredBy)

	f.clock.Advance(24 * time.Hour)
	shorter, err := f.svc.ApplyCooldown(ctx, CooldownRequest{
		SellerID: "seller-7", Type: models.CooldownAuctionBan, DurationDays: 3, Reason: "Second default",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, shorter.ID)
	assert.True(t, first.EndDate.Equal(shorter.EndDate), "shorter request keeps the later end date")
	assert.Equal(t, "Payment default (Extended: Second default)", shorter.Description)

	longer, err := f.svc.ApplyCooldown(ctx, CooldownRequest{
		SellerID: "seller-7", Type: models.CooldownAuctionBan, DurationDays: 20, Reason: "Third default",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, longer.ID)
	assert.True(t, f.clock.Now.AddDate(0, 0, 20).Equal(longer.EndDate))

	active, err := f.svc.ListActiveCooldowns(ctx, "seller-7")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, longer.EndDate.Equal(active[0].EndDate))
	assert.True(t, strings.HasSuffix(active[0].Description, "(Extended: Third default)"))

	assert.Equal(t, []string{events.CooldownApplied}, f.publisher.Names())
}

// racingRepo misses the first active-cooldown lookup, as if another writer
// inserted the row between our read and our insert.
type racingRepo struct {
	repositories.PenaltyRepository
	missed *bool
}

func (r racingRepo) GetActiveCooldown(ctx context.Context, sellerID string, typ models.CooldownType, now time.Time) (*models.Cooldown, error) {
	if !*r.missed {
		*r.missed = true
		return nil, repositories.ErrCooldownNotFound
	}
	return r.PenaltyRepository.GetActiveCooldown(ctx, sellerID, typ, now)
}

func (r racingRepo) ExecuteInTransaction(ctx context.Context, fn func(repositories.PenaltyRepository) error) error {
	return r.PenaltyRepository.ExecuteInTransaction(ctx, func(tx repositories.PenaltyRepository) error {
		return fn(racingRepo{PenaltyRepository: tx, missed: r.missed})
	})
}

func TestApplyCooldown_LostInsertRaceExtends(t *testing.T) {
	missed := true
	f := setupServiceWithRepo(t, func(r repositories.PenaltyRepository) repositories.PenaltyRepository {
		return racingRepo{PenaltyRepository: r, missed: &missed}
	})
	ctx := context.Background()

	first, err := f.svc.ApplyCooldown(ctx, CooldownRequest{
		SellerID: "seller-12", Type: models.CooldownListingBan, DurationDays: 2, Reason: "First report",
	})
	require.NoError(t, err)

	missed = false
	second, err := f.svc.ApplyCooldown(ctx, CooldownRequest{
		SellerID: "seller-12", Type: models.CooldownListingBan, DurationDays: 6, Reason: "Second report",
	})
	require.NoError(t, err)
	assert.True(t, missed)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, testNow.AddDate(0, 0, 6).Equal(second.EndDate))
	assert.Equal(t, "First report (Extended: Second report)", second.Description)

	active, err := f.svc.ListActiveCooldowns(ctx, "seller-12")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, []string{events.CooldownApplied}, f.publisher.Names())
}

func TestApplyCooldown_AfterExpiryCreatesNewRecord(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	first, err := f.svc.ApplyCooldown(ctx, CooldownRequest{
		SellerID: "seller-8", Type: models.CooldownReviewRequired, DurationDays: 1, Reason: "Spot check",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityLow, first.Severity)

	f.clock.Advance(48 * time.Hour)
	second, err := f.svc.ApplyCooldown(ctx, CooldownRequest{
		SellerID: "seller-8", Type: models.CooldownReviewRequired, DurationDays: 2, Reason: "Another check",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	active, err := f.svc.ListActiveCooldowns(ctx, "seller-8")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	// The lapsed row was switched off, so the sweeper finds nothing to do.
	result, err := f.svc.ExpireRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CooldownSellers)
}

func TestApplyCooldown_Validation(t *testing.T) {
	f := setupService(t)

	tests := []struct {
		name    string
		req     CooldownRequest
		wantErr error
	}{
		{"unknown type", CooldownRequest{SellerID: "s", Type: "timeout", DurationDays: 1}, apperrors.ErrUnknownCooldownType},
		{"zero duration", CooldownRequest{SellerID: "s", Type: models.CooldownListingBan}, apperrors.ErrInvalidDuration},
		{"negative duration", CooldownRequest{SellerID: "s", Type: models.CooldownListingBan, DurationDays: -2}, apperrors.ErrInvalidDuration},
		{"missing seller", CooldownRequest{Type: models.CooldownListingBan, DurationDays: 2}, apperrors.ErrInvalidSeller},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ApplyCooldown(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyCooldown_InvalidatesCachedScore(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	_, err := f.svc.CalculateRiskScore(ctx, "seller-9")
	require.NoError(t, err)
	require.True(t, f.redis.Exists("risk_score:seller:seller-9"))

	_, err = f.svc.ApplyCooldown(ctx, CooldownRequest{SellerID: "seller-9", Type: models.CooldownListingBan, DurationDays: 2, Reason: "Review"})
	require.NoError(t, err)
	assert.False(t, f.redis.Exists("risk_score:seller:seller-9"))
}

func TestCheckSellerPermissions_ListingBanOnly(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	cd, err := f.svc.ApplyCooldown(ctx, CooldownRequest{
		SellerID: "seller-10", Type: models.CooldownListingBan, DurationDays: 5, Reason: "Listing review",
	})
	require.NoError(t, err)

	perms, err := f.svc.CheckSellerPermissions(ctx, "seller-10")
	require.NoError(t, err)

	assert.False(t, perms.CanListProducts.Allowed)
	require.NotNil(t, perms.CanListProducts.CooldownEnd)
	assert.True(t, cd.EndDate.Equal(*perms.CanListProducts.CooldownEnd))
	assert.True(t, perms.CanParticipateInAuctions.Allowed)
	assert.True(t, perms.CanReceivePayments.Allowed)

	require.Len(t, perms.Restrictions, 1)
	assert.Contains(t, perms.Restrictions[0], testNow.AddDate(0, 0, 5).Format("2006-01-02"))
	assert.Equal(t, models.RiskLevelLow, perms.RiskLevel)
}

func TestGetRiskScore_CacheLifecycle(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	first, err := f.svc.GetRiskScore(ctx, "seller-11")
	require.NoError(t, err)
	assert.Equal(t, 100.0, first.OverallScore)

	// A fresh cached snapshot is served as is.
	planted := *first
	planted.OverallScore = 42
	require.NoError(t, f.cache.SetRiskScore(ctx, &planted))

	got, err := f.svc.GetRiskScore(ctx, "seller-11")
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.OverallScore)

	// Past the max age it is recomputed.
	f.clock.Advance(DefaultRiskScoreMaxAge)
	got, err = f.svc.GetRiskScore(ctx, "seller-11")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.OverallScore)
	assert.True(t, f.clock.Now.Equal(got.LastCalculated))

	// A broken cache degrades to recomputation.
	f.redis.Close()
	got, err = f.svc.GetRiskScore(ctx, "seller-11")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.OverallScore)
}

func TestCalculateRiskScore_TrendAndPerformance(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	baseline, err := f.svc.CalculateRiskScore(ctx, "seller-12")
	require.NoError(t, err)
	assert.Equal(t, models.TrendStable, baseline.Trend)

	_, err = f.svc.ApplyPenalty(ctx, "seller-12", models.PenaltyFraud, PenaltyDetails{})
	require.NoError(t, err)

	score, err := f.repo.GetRiskScore(ctx, "seller-12")
	require.NoError(t, err)
	assert.Equal(t, 90.0, score.OverallScore)
	assert.Equal(t, models.TrendDeclining, score.Trend)

	require.NoError(t, f.perf.Upsert(ctx, &models.SellerPerformance{SellerID: "seller-12", OnTimeDeliveryRate: 0.5}))
	score, err = f.svc.CalculateRiskScore(ctx, "seller-12")
	require.NoError(t, err)
	assert.Equal(t, 50.0, score.ComponentScores.Delivery)
	// 0.30*50 + 0.30*100 + 0.25*75 + 0.15*75 = 75
	assert.Equal(t, 75.0, score.OverallScore)
	assert.Equal(t, models.RiskLevelMedium, score.RiskLevel)
	assert.Equal(t, models.TrendDeclining, score.Trend)

	_, err = f.svc.CalculateRiskScore(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSeller)
}

func TestAppealPenalty(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	p, err := f.svc.ApplyPenalty(ctx, "seller-13", models.PenaltyMisdescription, PenaltyDetails{})
	require.NoError(t, err)

	_, err = f.svc.AppealPenalty(ctx, p.ID, "  ", nil)
	assert.ErrorIs(t, err, apperrors.ErrAppealReasonRequired)

	_, err = f.svc.AppealPenalty(ctx, "no-such-penalty", "wrong seller", nil)
	assert.ErrorIs(t, err, apperrors.ErrPenaltyNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))

	ack, err := f.svc.AppealPenalty(ctx, p.ID, "Item matched the photos", []string{"photo.jpg"})
	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.Equal(t, p.ID, ack.PenaltyID)
	assert.NotEmpty(t, ack.Message)

	stored, err := f.svc.GetPenalty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PenaltyStatusActive, stored.Status)
	assert.Equal(t, "seller-13", stored.SellerID)

	_, err = f.svc.GetPenalty(ctx, "no-such-penalty")
	assert.ErrorIs(t, err, apperrors.ErrPenaltyNotFound)
}

func TestExpireRecords(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	_, err := f.svc.ApplyPenalty(ctx, "seller-14", models.PenaltyNonDelivery, PenaltyDetails{})
	require.NoError(t, err)
	require.True(t, f.redis.Exists("risk_score:seller:seller-14"))

	result, err := f.svc.ExpireRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ExpiryResult{}, result)

	f.clock.Advance(91 * 24 * time.Hour)
	result, err = f.svc.ExpireRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.PenaltySellers)
	assert.Equal(t, 1, result.CooldownSellers)
	assert.False(t, f.redis.Exists("risk_score:seller:seller-14"))

	penalties, err := f.svc.ListPenalties(ctx, "seller-14")
	require.NoError(t, err)
	require.Len(t, penalties, 1)
	assert.Equal(t, models.PenaltyStatusExpired, penalties[0].Status)
}
