package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/httpx"
)

// CookieName is the session cookie set on sign-in and cleared on sign-out.
const CookieName = "hackhub_token"

type contextKey struct{}

// IdentityFromContext returns the session identity stored by RequireAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the given identity. Tests use it
// to fake a session.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// RequireAuth wraps a handler, rejecting requests without a valid session
// token. The token is read from the Authorization header or the session
// cookie.
func (a *App) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			if c, err := r.Cookie(CookieName); err == nil {
				tokenStr = c.Value
			}
		}
		if tokenStr == "" {
			httpx.WriteError(w, apperrors.ErrAuthRequired)
			return
		}

		identity, err := a.VerifyToken(tokenStr)
		if err != nil {
			httpx.WriteError(w, apperrors.ErrAuthRequired)
			return
		}

		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
