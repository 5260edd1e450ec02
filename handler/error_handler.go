package handler

import (
	"errors"
	"net/http"

	"go-bankist/common"
	"go-bankist/service"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// DomainError maps ledger and session failures to HTTP responses.
func DomainError(err error, fallback string) *common.AppError {
	message := err.Error()
	var failure *service.Failure
	if errors.As(err, &failure) {
		message = failure.Err.Error()
	}

	switch {
	case errors.Is(err, service.ErrAuthFailed), errors.Is(err, service.ErrNoSession):
		return common.NewAppError(http.StatusUnauthorized, message, err)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSelfTransfer),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrNotEligible):
		return common.NewAppError(http.StatusBadRequest, message, err)
	case errors.Is(err, service.ErrUnknownRecipient):
		return common.NewAppError(http.StatusNotFound, message, err)
	case errors.Is(err, service.ErrCredentialMismatch):
		return common.NewAppError(http.StatusForbidden, message, err)
	case errors.Is(err, service.ErrAccountNotFound):
		return common.NewAppError(http.StatusUnauthorized, "session account no longer exists", err)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}
