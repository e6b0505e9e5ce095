package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pulse-shop/internal/model"

	"github.com/rs/zerolog"
)

// Authorizer resolves a bearer token to an admin identity.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*model.AdminIdentity, error)
}

// AdminAuth rejects requests without a valid admin session token.
// Missing and invalid tokens get the same response.
func AdminAuth(auth Authorizer, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing admin token")
				writeError(w, r, http.StatusUnauthorized, "unauthorized", model.ErrCodeUnauthorised)
				return
			}

			identity, err := auth.Authorize(r.Context(), token)
			if err != nil {
				if errors.Is(err, model.ErrUnauthorized) {
					logger.Warn().
						Str("path", r.URL.Path).
						Str("token_prefix", token[:min(8, len(token))]).
						Msg("invalid admin token")
					writeError(w, r, http.StatusUnauthorized, "unauthorized", model.ErrCodeUnauthorised)
					return
				}

				logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to authorize admin token")
				writeError(w, r, http.StatusInternalServerError, "internal server error", model.ErrCodeInternalError)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
		})
	}
}

// IdentityFromContext returns the admin identity placed on the context by AdminAuth.
func IdentityFromContext(ctx context.Context) (*model.AdminIdentity, bool) {
	identity, ok := ctx.Value(identityKey).(*model.AdminIdentity)
	return identity, ok
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
