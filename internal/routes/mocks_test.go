package routes

import (
	"context"

	"bidmart/internal/models"
	"bidmart/internal/services/penalty"
	"bidmart/internal/services/wallet"

	"github.com/stretchr/testify/mock"
)

type MockPenaltyService struct {
	mock.Mock
}

func (m *MockPenaltyService) ApplyPenalty(ctx context.Context, sellerID string, pt models.PenaltyType, details penalty.PenaltyDetails) (*models.Penalty, error) {
	args := m.Called(ctx, sellerID, pt, details)
	p, _ := args.Get(0).(*models.Penalty)
	return p, args.Error(1)
}

func (m *MockPenaltyService) CalculatePenaltyAmount(ctx context.Context, sellerID string, baseAmount int64, severity models.Severity) (int64, error) {
	args := m.Called(ctx, sellerID, baseAmount, severity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPenaltyService) GetPenalty(ctx context.Context, penaltyID string) (*models.Penalty, error) {
	args := m.Called(ctx, penaltyID)
	p, _ := args.Get(0).(*models.Penalty)
	return p, args.Error(1)
}

func (m *MockPenaltyService) ListPenalties(ctx context.Context, sellerID string) ([]models.Penalty, error) {
	args := m.Called(ctx, sellerID)
	ps, _ := args.Get(0).([]models.Penalty)
	return ps, args.Error(1)
}

func (m *MockPenaltyService) AppealPenalty(ctx context.Context, penaltyID, reason string, evidence []string) (*penalty.AppealResult, error) {
	args := m.Called(ctx, penaltyID, reason, evidence)
	r, _ := args.Get(0).(*penalty.AppealResult)
	return r, args.Error(1)
}

func (m *MockPenaltyService) Rules() []penalty.PenaltyRule {
	args := m.Called()
	r, _ := args.Get(0).([]penalty.PenaltyRule)
	return r
}

func (m *MockPenaltyService) CalculateRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error) {
	args := m.Called(ctx, sellerID)
	s, _ := args.Get(0).(*models.RiskScore)
	return s, args.Error(1)
}

func (m *MockPenaltyService) GetRiskScore(ctx context.Context, sellerID string) (*models.RiskScore, error) {
	args := m.Called(ctx, sellerID)
	s, _ := args.Get(0).(*models.RiskScore)
	return s, args.Error(1)
}

func (m *MockPenaltyService) ApplyCooldown(ctx context.Context, req penalty.CooldownRequest) (*models.Cooldown, error) {
	args := m.Called(ctx, req)
	cd, _ := args.Get(0).(*models.Cooldown)
	return cd, args.Error(1)
}

func (m *MockPenaltyService) ListActiveCooldowns(ctx context.Context, sellerID string) ([]models.Cooldown, error) {
	args := m.Called(ctx, sellerID)
	cds, _ := args.Get(0).([]models.Cooldown)
	return cds, args.Error(1)
}

func (m *MockPenaltyService) CheckSellerPermissions(ctx context.Context, sellerID string) (*penalty.PermissionCheckResult, error) {
	args := m.Called(ctx, sellerID)
	r, _ := args.Get(0).(*penalty.PermissionCheckResult)
	return r, args.Error(1)
}

func (m *MockPenaltyService) ExpireRecords(ctx context.Context) (*penalty.ExpiryResult, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*penalty.ExpiryResult)
	return r, args.Error(1)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetBalance(ctx context.Context, userID string) (*models.WalletBalance, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).(*models.WalletBalance)
	return b, args.Error(1)
}

func (m *MockWalletService) result(args mock.Arguments) (*wallet.OperationResult, error) {
	r, _ := args.Get(0).(*wallet.OperationResult)
	return r, args.Error(1)
}

func (m *MockWalletService) AddFunds(ctx context.Context, req wallet.OperationRequest) (*wallet.OperationResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *MockWalletService) DeductFunds(ctx context.Context, req wallet.OperationRequest) (*wallet.OperationResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *MockWalletService) HoldFunds(ctx context.Context, req wallet.OperationRequest) (*wallet.OperationResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *MockWalletService) ReleaseFunds(ctx context.Context, req wallet.OperationRequest) (*wallet.OperationResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *MockWalletService) ProcessRefund(ctx context.Context, req wallet.RefundRequest) (*wallet.OperationResult, error) {
	return m.result(m.Called(ctx, req))
}

func (m *MockWalletService) ProcessAuctionSettlement(ctx context.Context, req wallet.SettlementRequest) (*wallet.SettlementResult, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*wallet.SettlementResult)
	return r, args.Error(1)
}

func (m *MockWalletService) RefundAuctionBids(ctx context.Context, auctionID string, bids []wallet.BidRefund) (*wallet.BidRefundResult, error) {
	args := m.Called(ctx, auctionID, bids)
	r, _ := args.Get(0).(*wallet.BidRefundResult)
	return r, args.Error(1)
}

func (m *MockWalletService) GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Error(1)
}
