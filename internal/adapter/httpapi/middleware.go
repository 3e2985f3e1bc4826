package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/auth"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
	"github.com/swipebay/marketplace-service/internal/platform/metrics"
)

var errMissingToken = fmt.Errorf("%w: missing bearer token", auth.ErrInvalidToken)

// TokenVerifier checks a bearer token and returns the user id it names.
type TokenVerifier interface {
	VerifyToken(tokenString string) (string, error)
}

type ctxKey int

const userIDKey ctxKey = iota

// UserIDFromContext returns the authenticated user id, or "" for
// anonymous requests that passed through OptionalAuth.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := bearerUserID(r, verifier)
			if err != nil {
				respondError(w, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

// OptionalAuth resolves the bearer token when present but lets
// anonymous requests through. Signed-out users may still browse
// the feed; their swipes stay on this node only.
func OptionalAuth(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := bearerUserID(r, verifier)
			if err != nil {
				respondError(w, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

func bearerUserID(r *http.Request, verifier TokenVerifier) (string, error) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", errMissingToken
	}
	return verifier.VerifyToken(token)
}

// Observe logs every request and records latency and error metrics
// under the chi route pattern.
func Observe(log *logger.Logger, m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			elapsed := time.Since(start)

			if m != nil {
				m.APILatency.WithLabelValues(route).Observe(elapsed.Seconds())
				if ww.Status() >= http.StatusBadRequest {
					m.APIErrorsTotal.WithLabelValues(route, http.StatusText(ww.Status())).Inc()
				}
			}

			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", elapsed))
		})
	}
}
