package wallet

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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	repo      repositories.WalletRepository
	publisher events.Publisher
	config    WalletConfig
	metrics   MetricsCollector
	logger    *zap.Logger
}

// NewService creates a new wallet service
func NewService(
	repo repositories.WalletRepository,
	publisher events.Publisher,
	config WalletConfig,
	metrics MetricsCollector,
	logger *zap.Logger,
) Service {
	if repo == nil {
		panic("repo is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}

	// Set default configuration values if not provided
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.PlatformAccountID == "" {
		config.PlatformAccountID = DefaultPlatformAccountID
	}
	if config.DefaultPlatformFeePercent == nil {
		fee := DefaultPlatformFeePercent
		config.DefaultPlatformFeePercent = &fee
	}
	if config.Now == nil {
		config.Now = defaultNow
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:      repo,
		publisher: publisher,
		config:    config,
		metrics:   metrics,
		logger:    logger.Named("wallet"),
	}
}

func (s *service) now() time.Time {
	return s.config.Now().UTC()
}

// GetBalance returns the user's balance. Users without a wallet see an
// empty one in the default currency.
func (s *service) GetBalance(ctx context.Context, userID string) (*models.WalletBalance, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.ErrInvalidUser
	}

	w, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrWalletNotFound) {
		return &models.WalletBalance{
			UserID:      userID,
			Currency:    s.config.DefaultCurrency,
			LastUpdated: s.now(),
		}, nil
	}
	if err != nil {
		return nil, s.fail(opGetBalance, userID, err)
	}

	balance := w.Snapshot()
	return &balance, nil
}

func (s *service) AddFunds(ctx context.Context, req OperationRequest) (*OperationResult, error) {
	result, entry, err := s.execute(ctx, opAddFunds, models.TransactionCredit, req)
	if err != nil {
		return nil, err
	}
	s.publishCompleted(ctx, entry, result.NewBalance)
	return result, nil
}

func (s *service) DeductFunds(ctx context.Context, req OperationRequest) (*OperationResult, error) {
	result, entry, err := s.execute(ctx, opDeductFunds, models.TransactionDebit, req)
	if err != nil {
		return nil, err
	}
	s.publishCompleted(ctx, entry, result.NewBalance)
	return result, nil
}

// HoldFunds moves funds from available to held, typically a bid deposit.
func (s *service) HoldFunds(ctx context.Context, req OperationRequest) (*OperationResult, error) {
	result, _, err := s.execute(ctx, opHoldFunds, models.TransactionHold, req)
	return result, err
}

// ReleaseFunds moves held funds back to available.
func (s *service) ReleaseFunds(ctx context.Context, req OperationRequest) (*OperationResult, error) {
	result, _, err := s.execute(ctx, opReleaseFunds, models.TransactionRelease, req)
	return result, err
}

// ProcessRefund credits the user with purpose refund and links the entry
// to the transaction being refunded.
func (s *service) ProcessRefund(ctx context.Context, req RefundRequest) (*OperationResult, error) {
	description := "Refund"
	if req.Reason != "" {
		description = "Refund: " + req.Reason
	}

	result, entry, err := s.execute(ctx, opRefund, models.TransactionCredit, OperationRequest{
		UserID:        req.UserID,
		Amount:        req.Amount,
		Purpose:       models.PurposeRefund,
		ReferenceID:   req.OriginalTransactionID,
		ReferenceType: ReferenceTransaction,
		Description:   description,
		Metadata: map[string]interface{}{
			"original_transaction_id": req.OriginalTransactionID,
			"reason":                  req.Reason,
		},
	})
	if err != nil {
		return nil, err
	}

	s.publishCompleted(ctx, entry, result.NewBalance)
	s.publish(ctx, events.WalletRefundProcessed, req.UserID, RefundProcessedEvent{
		UserID:                req.UserID,
		Amount:                req.Amount,
		TransactionID:         entry.ID,
		OriginalTransactionID: req.OriginalTransactionID,
		Reason:                req.Reason,
	})
	return result, nil
}

// ProcessAuctionSettlement debits the winner the final price and splits it
// between the seller and the platform account. An auction settles once.
func (s *service) ProcessAuctionSettlement(ctx context.Context, req SettlementRequest) (*SettlementResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opSettlement, time.Since(start)) }()

	if strings.TrimSpace(req.AuctionID) == "" || strings.TrimSpace(req.WinnerID) == "" ||
		strings.TrimSpace(req.SellerID) == "" || req.WinnerID == req.SellerID {
		return nil, s.fail(opSettlement, req.WinnerID, apperrors.ErrInvalidSettlement)
	}
	if req.FinalPrice <= 0 {
		return nil, s.fail(opSettlement, req.WinnerID, apperrors.ErrInvalidAmount)
	}
	feePercent := *s.config.DefaultPlatformFeePercent
	if req.PlatformFeePercent != nil {
		feePercent = *req.PlatformFeePercent
	}
	if feePercent < 0 || feePercent > 100 {
		return nil, s.fail(opSettlement, req.WinnerID, apperrors.ErrInvalidFeePercent)
	}

	fee := PlatformFee(req.FinalPrice, feePercent)
	payout := req.FinalPrice - fee
	now := s.now()
	auctionRef := func(userID string, amount int64, purpose models.TransactionPurpose, description string) OperationRequest {
		return OperationRequest{
			UserID:        userID,
			Amount:        amount,
			Purpose:       purpose,
			ReferenceID:   req.AuctionID,
			ReferenceType: ReferenceAuction,
			Description:   description,
		}
	}

	result := &SettlementResult{
		Success:      true,
		AuctionID:    req.AuctionID,
		FinalPrice:   req.FinalPrice,
		PlatformFee:  fee,
		SellerPayout: payout,
		FeePercent:   feePercent,
	}
	var entries []*models.Transaction

	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.WalletRepository) error {
		entries = entries[:0]
		existing, err := tx.GetSettlement(ctx, req.AuctionID)
		if err != nil {
			return err
		}
		if existing != nil {
			return repositories.ErrSettlementExists
		}
		if err := tx.CreateSettlement(ctx, &models.AuctionSettlement{
			AuctionID:    req.AuctionID,
			WinnerID:     req.WinnerID,
			SellerID:     req.SellerID,
			FinalPrice:   req.FinalPrice,
			PlatformFee:  fee,
			SellerPayout: payout,
			FeePercent:   feePercent,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		debit, err := s.record(ctx, tx, models.TransactionDebit,
			auctionRef(req.WinnerID, req.FinalPrice, models.PurposeAuctionWin, "Payment for auction "+req.AuctionID), now)
		if err != nil {
			return err
		}
		result.WinnerTransactionID = debit.ID
		entries = append(entries, debit)

		if payout > 0 {
			credit, err := s.record(ctx, tx, models.TransactionCredit,
				auctionRef(req.SellerID, payout, models.PurposeAuctionPayout, "Payout for auction "+req.AuctionID), now)
			if err != nil {
				return err
			}
			result.SellerTransactionID = credit.ID
			entries = append(entries, credit)
		}

		if fee > 0 {
			commission, err := s.record(ctx, tx, models.TransactionCredit,
				auctionRef(s.config.PlatformAccountID, fee, models.PurposeCommission, "Commission for auction "+req.AuctionID), now)
			if err != nil {
				return err
			}
			result.FeeTransactionID = commission.ID
			entries = append(entries, commission)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(opSettlement, req.WinnerID, translate(err))
	}

	for _, entry := range entries {
		s.metrics.RecordTransaction(string(entry.Type), string(entry.Purpose), entry.Amount)
		if balance, err := s.GetBalance(ctx, entry.UserID); err == nil {
			s.publishCompleted(ctx, entry, *balance)
		}
	}
	s.metrics.RecordOperationResult(opSettlement, "success")
	s.logger.Info("auction settled",
		zap.String("auction_id", req.AuctionID),
		zap.String("winner_id", req.WinnerID),
		zap.String("seller_id", req.SellerID),
		zap.Int64("final_price", req.FinalPrice),
		zap.Int64("platform_fee", fee))

	return result, nil
}

// RefundAuctionBids releases each losing bid's deposit independently.
// Failures are collected rather than aborting the batch.
func (s *service) RefundAuctionBids(ctx context.Context, auctionID string, bids []BidRefund) (*BidRefundResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opBidRefunds, time.Since(start)) }()

	result := &BidRefundResult{
		Success:       true,
		AuctionID:     auctionID,
		FailedRefunds: []FailedRefund{},
	}

	for _, bid := range bids {
		_, err := s.ReleaseFunds(ctx, OperationRequest{
			UserID:        bid.BidderID,
			Amount:        bid.Amount,
			Purpose:       models.PurposeBidRefund,
			ReferenceID:   bid.BidID,
			ReferenceType: ReferenceBid,
			Description:   "Bid refund for auction " + auctionID,
			Metadata:      map[string]interface{}{"auction_id": auctionID},
		})
		if err != nil {
			result.FailedRefunds = append(result.FailedRefunds, FailedRefund{
				BidID:    bid.BidID,
				BidderID: bid.BidderID,
				Amount:   bid.Amount,
				Error:    err.Error(),
			})
			continue
		}
		result.RefundedCount++
		result.TotalRefunded += bid.Amount
	}

	if len(result.FailedRefunds) > 0 {
		s.metrics.RecordOperationResult(opBidRefunds, "partial")
		s.logger.Warn("some bid refunds failed",
			zap.String("auction_id", auctionID),
			zap.Int("failed", len(result.FailedRefunds)),
			zap.Int("refunded", result.RefundedCount))
	} else {
		s.metrics.RecordOperationResult(opBidRefunds, "success")
	}
	return result, nil
}

func (s *service) GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.ErrInvalidUser
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := s.repo.GetTransactionHistory(ctx, userID, limit, offset)
	if err != nil {
		return nil, s.fail(opHistory, userID, err)
	}
	return txs, nil
}

// PlatformFee is finalPrice * percent / 100 rounded half away from zero.
func PlatformFee(finalPrice int64, percent float64) int64 {
	return decimal.NewFromInt(finalPrice).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// execute validates req and applies a single balance movement with its
// ledger entry in one transaction.
func (s *service) execute(ctx context.Context, operation string, txType models.TransactionType, req OperationRequest) (*OperationResult, *models.Transaction, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(operation, time.Since(start)) }()

	if err := s.validate(req); err != nil {
		return nil, nil, s.fail(operation, req.UserID, err)
	}

	var (
		entry  *models.Transaction
		wallet *models.Wallet
	)
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.WalletRepository) error {
		var err error
		entry, err = s.record(ctx, tx, txType, req, s.now())
		if err != nil {
			return err
		}
		wallet, err = tx.GetByUserID(ctx, req.UserID)
		return err
	})
	if err != nil {
		return nil, nil, s.fail(operation, req.UserID, translate(err))
	}

	s.metrics.RecordTransaction(string(txType), string(req.Purpose), req.Amount)
	s.metrics.RecordOperationResult(operation, "success")
	s.logger.Debug("wallet updated",
		zap.String("operation", operation),
		zap.String("user_id", req.UserID),
		zap.String("transaction_id", entry.ID),
		zap.Int64("amount", req.Amount),
		zap.Int64("available_balance", wallet.AvailableBalance),
		zap.Int64("held_balance", wallet.HeldBalance))

	return &OperationResult{
		Success:       true,
		TransactionID: entry.ID,
		NewBalance:    wallet.Snapshot(),
	}, entry, nil
}

func (s *service) validate(req OperationRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return apperrors.ErrInvalidUser
	}
	if req.Amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if !req.Purpose.Valid() {
		return apperrors.ErrInvalidPurpose.WithMessage(fmt.Sprintf("unknown transaction purpose: %s", req.Purpose))
	}
	return nil
}

// record moves the balance and appends the ledger entry. It must run on a
// transaction-scoped repository.
func (s *service) record(ctx context.Context, tx repositories.WalletRepository, txType models.TransactionType, req OperationRequest, now time.Time) (*models.Transaction, error) {
	if err := tx.EnsureWallet(ctx, req.UserID, s.config.DefaultCurrency); err != nil {
		return nil, err
	}

	var err error
	switch txType {
	case models.TransactionCredit:
		err = tx.Credit(ctx, req.UserID, req.Amount, now)
	case models.TransactionDebit:
		err = tx.Debit(ctx, req.UserID, req.Amount, now)
	case models.TransactionHold:
		err = tx.Hold(ctx, req.UserID, req.Amount, now)
	case models.TransactionRelease:
		err = tx.Release(ctx, req.UserID, req.Amount, now)
	default:
		err = fmt.Errorf("unsupported transaction type %q", txType)
	}
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("%s: %s", txType, req.Purpose)
	}
	entry := &models.Transaction{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		Amount:        req.Amount,
		Type:          txType,
		Purpose:       req.Purpose,
		Status:        models.TransactionStatusCompleted,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		Description:   description,
		Metadata:      models.NewJSON(req.Metadata),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.CreateTransaction(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// fail logs err with its context and returns what the caller should see:
// client errors unchanged, everything else wrapped as an internal error.
func (s *service) fail(operation, userID string, err error) error {
	if apperrors.IsClientError(err) {
		s.metrics.RecordError(operation, "validation")
		s.logger.Debug("request rejected",
			zap.String("operation", operation),
			zap.String("user_id", userID),
			zap.Error(err))
		return err
	}

	s.metrics.RecordError(operation, "internal")
	s.logger.Error("operation failed",
		zap.String("operation", operation),
		zap.String("user_id", userID),
		zap.Error(err))
	return fmt.Errorf("%s: %w: %w", operation, apperrors.ErrInternal, err)
}

func (s *service) publishCompleted(ctx context.Context, entry *models.Transaction, balance models.WalletBalance) {
	s.publish(ctx, events.WalletTransactionCompleted, entry.UserID, TransactionCompletedEvent{
		Transaction: entry,
		Balance:     balance,
	})
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
			zap.String("user_id", key),
			zap.Error(err))
	}
}
