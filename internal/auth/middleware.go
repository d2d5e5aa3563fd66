package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/redmonkez12/family-health-api/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const UserIDContextKey ContextKey = "user_id"

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	responder    *httputil.Responder
}

func NewMiddleware(tokenService TokenService, responder *httputil.Responder) *Middleware {
	return &Middleware{tokenService: tokenService, responder: responder}
}

// RequireAuth validates the bearer token and binds the user id to the request
// context. Nothing else from the token is bound.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			m.responder.Error(w, r, err)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			m.responder.Error(w, r, err)
			return
		}

		ctx := WithUserID(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuth
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	return userID, ok
}

// UserID returns the authenticated user id or ErrMissingAuth when the route
// was not wrapped by RequireAuth.
func UserID(ctx context.Context) (int64, error) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok || userID <= 0 {
		return 0, ErrMissingAuth
	}
	return userID, nil
}
