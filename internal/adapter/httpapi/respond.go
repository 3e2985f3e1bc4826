package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/auth"
	"github.com/swipebay/marketplace-service/internal/feed"
	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out; nothing left to do for the client.
		return
	}
}

func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		respond(w, status, errorResponse{Error: "internal server error"})
		return
	}
	respond(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidListingData),
		errors.Is(err, feed.ErrBadDecision):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, feed.ErrFeedEmpty),
		errors.Is(err, feed.ErrNothingToUndo):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
