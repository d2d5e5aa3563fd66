package auth

import (
	"context"
	"time"

	"github.com/redmonkez12/family-health-api/internal/domain"
)

// TokenDuration is the lifetime of every issued token.
const TokenDuration = time.Hour

// DefaultInsecureSecret is the development fallback signing secret. It is
// refused in production.
const DefaultInsecureSecret = "your-secret-key"

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(userID int64, email string) (IssuedToken, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserStore is the persistence the authentication service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, bool, error)
	GetByID(ctx context.Context, id int64) (domain.User, bool, error)
}

// TokenClaims are the verified contents of a token.
type TokenClaims struct {
	ID        string
	UserID    int64
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedToken is a freshly signed token with its expiry.
type IssuedToken struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}
