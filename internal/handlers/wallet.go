package handlers

import (
	"context"

	"bidmart/internal/models"
	"bidmart/internal/services/wallet"
	"bidmart/internal/utils"
	"bidmart/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

type walletOperationRequest struct {
	Amount        int64                  `json:"amount" validate:"gt=0"`
	Purpose       string                 `json:"purpose" validate:"required"`
	ReferenceID   string                 `json:"reference_id" validate:"max=64"`
	ReferenceType string                 `json:"reference_type" validate:"max=32"`
	Description   string                 `json:"description" validate:"max=500"`
	Metadata      map[string]interface{} `json:"metadata"`
}

type refundRequest struct {
	UserID                string `json:"user_id" validate:"required"`
	Amount                int64  `json:"amount" validate:"gt=0"`
	OriginalTransactionID string `json:"original_transaction_id" validate:"required"`
	Reason                string `json:"reason" validate:"required,max=500"`
}

type settlementRequest struct {
	WinnerID           string   `json:"winner_id" validate:"required"`
	SellerID           string   `json:"seller_id" validate:"required"`
	FinalPrice         int64    `json:"final_price" validate:"gt=0"`
	PlatformFeePercent *float64 `json:"platform_fee_percent" validate:"omitempty,gte=0,lte=100"`
}

type bidRefundsRequest struct {
	Bids []wallet.BidRefund `json:"bids" validate:"required,min=1"`
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.walletService.GetBalance(c.UserContext(), c.Params("userId"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, balance)
}

func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	p := utils.GetPagination(c, wallet.DefaultHistoryLimit, wallet.MaxHistoryLimit)

	txs, err := h.walletService.GetTransactionHistory(c.UserContext(), c.Params("userId"), p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, utils.NewPaginatedResponse(txs, p))
}

// Credit, Debit, Hold and Release share one body shape.
func (h *WalletHandler) Credit(c *fiber.Ctx) error {
	return h.operate(c, h.walletService.AddFunds)
}

func (h *WalletHandler) Debit(c *fiber.Ctx) error {
	return h.operate(c, h.walletService.DeductFunds)
}

func (h *WalletHandler) Hold(c *fiber.Ctx) error {
	return h.operate(c, h.walletService.HoldFunds)
}

func (h *WalletHandler) Release(c *fiber.Ctx) error {
	return h.operate(c, h.walletService.ReleaseFunds)
}

type walletOperation func(ctx context.Context, req wallet.OperationRequest) (*wallet.OperationResult, error)

func (h *WalletHandler) operate(c *fiber.Ctx, op walletOperation) error {
	var input walletOperationRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	result, err := op(c.UserContext(), wallet.OperationRequest{
		UserID:        c.Params("userId"),
		Amount:        input.Amount,
		Purpose:       models.TransactionPurpose(input.Purpose),
		ReferenceID:   input.ReferenceID,
		ReferenceType: input.ReferenceType,
		Description:   input.Description,
		Metadata:      input.Metadata,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, result)
}

func (h *WalletHandler) ProcessRefund(c *fiber.Ctx) error {
	var input refundRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	result, err := h.walletService.ProcessRefund(c.UserContext(), wallet.RefundRequest{
		UserID:                input.UserID,
		Amount:                input.Amount,
		OriginalTransactionID: input.OriginalTransactionID,
		Reason:                input.Reason,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, result)
}

func (h *WalletHandler) SettleAuction(c *fiber.Ctx) error {
	var input settlementRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	result, err := h.walletService.ProcessAuctionSettlement(c.UserContext(), wallet.SettlementRequest{
		AuctionID:          c.Params("id"),
		WinnerID:           input.WinnerID,
		SellerID:           input.SellerID,
		FinalPrice:         input.FinalPrice,
		PlatformFeePercent: input.PlatformFeePercent,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, result)
}

func (h *WalletHandler) RefundBids(c *fiber.Ctx) error {
	var input bidRefundsRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	result, err := h.walletService.RefundAuctionBids(c.UserContext(), c.Params("id"), input.Bids)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, result)
}
