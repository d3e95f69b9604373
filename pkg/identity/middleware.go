package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenantgate/pkg/access"
)

type contextKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *access.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity set by the middleware, or nil.
func FromContext(ctx context.Context) *access.Identity {
	id, _ := ctx.Value(contextKey{}).(*access.Identity)
	return id
}

// TokenExtractorFunc pulls a raw token from a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// ErrorHandlerFunc writes the response for a rejected token.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	Service   *Service
	Extractor TokenExtractorFunc // defaults to BearerTokenExtractor
	// Optional lets requests without a token through with no identity, so the
	// access facade can answer UNAUTHENTICATED. Invalid tokens are always rejected.
	Optional     bool
	ErrorHandler ErrorHandlerFunc // defaults to a plain 401
}

// Middleware verifies the bearer token and stores the caller's identity in
// the request context.
func Middleware(cfg MiddlewareConfig) func(next http.Handler) http.Handler {
	if cfg.Service == nil {
		panic("identity: service cannot be nil")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = BearerTokenExtractor
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cfg.Extractor(r)
			if err != nil {
				if cfg.Optional && errors.Is(err, ErrMissingToken) {
					next.ServeHTTP(w, r)
					return
				}
				cfg.ErrorHandler(w, r, err)
				return
			}

			id, err := cfg.Service.Parse(token)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
