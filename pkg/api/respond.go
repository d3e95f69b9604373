package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenantgate/pkg/access"
	"github.com/dmitrymomot/tenantgate/pkg/identity"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is a machine-readable code plus a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Error: &ErrorBody{Code: code, Message: msg}})
}

// writeFailure maps an engine error to a status code. Failing infrastructure
// is 503; anything unrecognized is 500 and logged.
func writeFailure(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", logger.Error(err), slog.String("path", r.URL.Path))
		writeError(w, status, code, http.StatusText(status))
		return
	}
	writeError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, access.ErrInvalidRequest),
		errors.Is(err, subscription.ErrInvalidDuration),
		errors.Is(err, subscription.ErrInvalidPlan),
		errors.Is(err, plans.ErrUnknownApplication),
		errors.Is(err, plans.ErrUnknownTier),
		errors.Is(err, subscription.ErrMissingSessionID),
		errors.Is(err, quota.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, plans.ErrPlanNotFound):
		return http.StatusNotFound, "plan_not_found"
	case errors.Is(err, subscription.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, quota.ErrQuotaExceeded):
		return http.StatusForbidden, string(access.ReasonQuotaExceeded)
	case errors.Is(err, identity.ErrMissingToken),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrExpiredToken),
		errors.Is(err, identity.ErrInvalidClaims):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, access.ErrMembershipLookup),
		errors.Is(err, access.ErrSubscriptionLookup),
		errors.Is(err, access.ErrUsageLookup),
		errors.Is(err, subscription.ErrStoreUnavailable),
		errors.Is(err, subscription.ErrSessionCache),
		errors.Is(err, quota.ErrFailedToCountUsage):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// denialStatus is the status for a caller refused before reaching a handler's work.
func denialStatus(r access.Reason) int {
	if r == access.ReasonUnauthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}
