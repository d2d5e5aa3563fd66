package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/family-health-api/internal/clock"
)

type jwtClaims struct {
	UserID    int64        `json:"userId"`
	Email     string       `json:"email"`
	ExpiresAt *numericDate `json:"exp,omitempty"`
	jwt.RegisteredClaims
}

// GetExpirationTime hands the validator the exact expiry instead of the
// float64-rounded one jwt.RegisteredClaims would decode.
func (c jwtClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == nil {
		return nil, nil
	}
	return &jwt.NumericDate{Time: c.ExpiresAt.Time}, nil
}

// numericDate is an RFC 7519 NumericDate carried to the nanosecond, written
// as seconds with a nine digit fraction.
type numericDate struct {
	time.Time
}

func (d numericDate) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%d.%09d", d.Unix(), d.Nanosecond())), nil
}

func (d *numericDate) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	whole, frac, _ := strings.Cut(n.String(), ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric date %q: %w", n, err)
	}
	var nsec int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		if nsec, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64); err != nil {
			return fmt.Errorf("invalid numeric date %q: %w", n, err)
		}
	}
	d.Time = time.Unix(sec, nsec).UTC()
	return nil
}

// JWTService signs HS256 tokens with a shared secret.
type JWTService struct {
	secret []byte
	clock  clock.Clock
}

// NewJWTService builds the default token service. An empty secret falls back
// to DefaultInsecureSecret outside production; in production an empty or
// default secret is rejected with ErrInsecureKey.
func NewJWTService(secret string, production bool, clk clock.Clock) (*JWTService, error) {
	if secret == "" || secret == DefaultInsecureSecret {
		if production {
			return nil, ErrInsecureKey
		}
		secret = DefaultInsecureSecret
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &JWTService{secret: []byte(secret), clock: clk}, nil
}

func (s *JWTService) CreateToken(userID int64, email string) (IssuedToken, error) {
	now := s.clock.Now()
	expiresAt := now.Add(TokenDuration)

	claims := jwtClaims{
		UserID:    userID,
		Email:     email,
		ExpiresAt: &numericDate{Time: expiresAt},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: signed, TokenType: "Bearer", ExpiresAt: expiresAt.UTC()}, nil
}

// VerifyToken checks the signature before the expiry, so a tampered token is
// reported invalid even when it is also stale.
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{
		ID:        claims.ID,
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
