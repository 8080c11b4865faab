package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lead-intake-go/internal/auth"
	"lead-intake-go/pkg/logger"
)

const accessTokenHeader = "x-access-token"

type contextKey int

const identityKey contextKey = iota

// Authenticator resolves a raw token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

type Auth struct {
	gate Authenticator
	log  logger.Logger
}

func NewAuth(gate Authenticator, log logger.Logger) *Auth {
	return &Auth{gate: gate, log: log}
}

// Authenticate rejects requests without a valid token before any handler runs
// and stores the caller in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.gate.Authenticate(r.Context(), TokenFromRequest(r))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrNoToken):
				writeError(w, http.StatusForbidden, "no_token", "no token provided")
			case errors.Is(err, auth.ErrInvalidToken):
				a.log.BusinessError("auth: rejected token", err, "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "invalid_token", "unauthorized")
			default:
				a.log.InternalError("auth: resolve caller failed", err, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireAdmin must run after Authenticate.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid_token", "unauthorized")
			return
		}
		if !identity.IsAdmin() {
			a.log.BusinessError("auth: admin role required", auth.ErrForbidden, "user_id", identity.UserID, "path", r.URL.Path)
			writeError(w, http.StatusForbidden, "admin_required", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromRequest reads x-access-token first, then Authorization with or
// without the Bearer prefix.
func TokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(accessTokenHeader)); token != "" {
		return token
	}

	value := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, ok := bearerToken(value); ok {
		return token
	}
	return value
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	if !ok || identity.UserID == 0 {
		return auth.Identity{}, false
	}
	return identity, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
