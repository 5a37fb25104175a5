package handler

import (
	"errors"
	"net/http"

	"github.com/mmeshcher/homeservices/internal/action"
	"github.com/mmeshcher/homeservices/internal/discovery"
	"github.com/mmeshcher/homeservices/internal/identity"
	"github.com/mmeshcher/homeservices/internal/marketplace"
	"github.com/mmeshcher/homeservices/internal/service"
	"github.com/mmeshcher/homeservices/internal/validation"
)

var errorStatuses = []struct {
	err  error
	code int
}{
	{action.ErrInFlight, http.StatusConflict},

	{service.ErrUnknownUser, http.StatusUnauthorized},
	{identity.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},

	{marketplace.ErrNotFound, http.StatusNotFound},
	{service.ErrBookingNotFound, http.StatusNotFound},
	{service.ErrReviewNotFound, http.StatusNotFound},
	{service.ErrWithdrawalNotFound, http.StatusNotFound},

	{service.ErrCategoryExists, http.StatusConflict},
	{service.ErrBookingNotPending, http.StatusConflict},
	{service.ErrNotReviewable, http.StatusConflict},
	{service.ErrWithdrawalNotPending, http.StatusConflict},
	{service.ErrInsufficientBalance, http.StatusPaymentRequired},

	{validation.ErrMissingDate, http.StatusUnprocessableEntity},
	{validation.ErrInvalidDate, http.StatusUnprocessableEntity},
	{validation.ErrDateInPast, http.StatusUnprocessableEntity},
	{validation.ErrMissingTime, http.StatusUnprocessableEntity},
	{validation.ErrUnknownTimeSlot, http.StatusUnprocessableEntity},
	{validation.ErrMissingAddress, http.StatusUnprocessableEntity},

	{service.ErrInvalidSignUp, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrInvalidService, http.StatusBadRequest},
	{service.ErrInvalidCategory, http.StatusBadRequest},
	{service.ErrInvalidAmount, http.StatusBadRequest},
	{service.ErrInvalidRating, http.StatusBadRequest},
	{service.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{service.ErrInvalidWithdrawalStatus, http.StatusBadRequest},
	{service.ErrPaymentNotReady, http.StatusBadRequest},
	{discovery.ErrUnknownPrice, http.StatusBadRequest},
	{discovery.ErrUnknownRating, http.StatusBadRequest},
	{discovery.ErrUnknownSort, http.StatusBadRequest},

	{marketplace.ErrUnavailable, http.StatusBadGateway},
	{marketplace.ErrInvalidResponse, http.StatusBadGateway},
	{marketplace.ErrNotConfigured, http.StatusBadGateway},
	{identity.ErrNotConfigured, http.StatusServiceUnavailable},
}

func statusFor(err error) (int, bool) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.code, true
		}
	}

	var apiErr *marketplace.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			return apiErr.StatusCode, true
		}
		return http.StatusBadGateway, true
	}

	return 0, false
}
