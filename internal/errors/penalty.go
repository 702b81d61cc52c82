package errors

import "net/http"

var (
	ErrUnknownPenaltyType = &DomainError{
		Code:    "UNKNOWN_PENALTY_TYPE",
		Message: "unknown penalty type",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidSeverity = &DomainError{
		Code:    "INVALID_SEVERITY",
		Message: "invalid severity",
		Status:  http.StatusBadRequest,
	}
	ErrUnknownCooldownType = &DomainError{
		Code:    "UNKNOWN_COOLDOWN_TYPE",
		Message: "unknown cooldown type",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidDuration = &DomainError{
		Code:    "INVALID_DURATION",
		Message: "duration must be at least one day",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidSeller = &DomainError{
		Code:    "INVALID_SELLER",
		Message: "seller id is required",
		Status:  http.StatusBadRequest,
	}
	ErrAppealReasonRequired = &DomainError{
		Code:    "APPEAL_REASON_REQUIRED",
		Message: "appeal reason is required",
		Status:  http.StatusBadRequest,
	}
	ErrPenaltyNotFound = &DomainError{
		Code:    "PENALTY_NOT_FOUND",
		Message: "penalty not found",
		Status:  http.StatusNotFound,
	}
)
