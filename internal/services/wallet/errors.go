package wallet

import (
	"errors"

	apperrors "bidmart/internal/errors"
	"bidmart/internal/repositories"
)

// translate maps repository outcomes onto the errors callers act on.
func translate(err error) error {
	switch {
	case errors.Is(err, repositories.ErrInsufficientBalance):
		return apperrors.ErrInsufficientFunds
	case errors.Is(err, repositories.ErrInsufficientHeld):
		return apperrors.ErrInsufficientHeldFunds
	case errors.Is(err, repositories.ErrSettlementExists):
		return apperrors.ErrAlreadySettled
	}
	return err
}
