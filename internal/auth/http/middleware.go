package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/service"
	"github.com/wayfarerhq/wayfarer/pkg/authsdk"
	"github.com/wayfarerhq/wayfarer/pkg/httpx"
)

type authCtxKey struct{}

// AuthnMiddleware verifies the Bearer access token on protected routes and
// stores the resulting identity in the request context. Failures are a
// uniform 401 regardless of cause.
func AuthnMiddleware(authorizer *service.Authorizer) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			ac, err := authorizer.Check(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := httpx.WithUserID(r.Context(), ac.UserID)
			ctx = context.WithValue(ctx, authCtxKey{}, ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthContextFrom returns the authenticated identity stored by
// AuthnMiddleware, if any.
func AuthContextFrom(ctx context.Context) (domain.AuthContext, bool) {
	ac, ok := ctx.Value(authCtxKey{}).(domain.AuthContext)
	return ac, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="wayfarer"`)
	authsdk.ErrBadAuthentication.WriteError(w)
}
