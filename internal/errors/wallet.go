package errors

import "net/http"

var (
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient available balance",
		Status:  http.StatusBadRequest,
	}
	ErrInsufficientHeldFunds = &DomainError{
		Code:    "INSUFFICIENT_HELD_FUNDS",
		Message: "insufficient held balance",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidFeePercent = &DomainError{
		Code:    "INVALID_FEE_PERCENT",
		Message: "platform fee percent must be between 0 and 100",
		Status:  http.StatusBadRequest,
	}
	ErrAlreadySettled = &DomainError{
		Code:    "AUCTION_ALREADY_SETTLED",
		Message: "auction has already been settled",
		Status:  http.StatusConflict,
	}
	ErrInvalidUser = &DomainError{
		Code:    "INVALID_USER",
		Message: "user id is required",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidPurpose = &DomainError{
		Code:    "INVALID_PURPOSE",
		Message: "unknown transaction purpose",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidSettlement = &DomainError{
		Code:    "INVALID_SETTLEMENT",
		Message: "auction, winner and seller ids are required and must differ",
		Status:  http.StatusBadRequest,
	}
)
