package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/redmonkez12/family-health-api/internal/clock"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	clock        clock.Clock
}

func NewPasetoService(symmetricKey []byte, clk clock.Clock) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}
	return newPasetoService(key, clk), nil
}

// NewPasetoServiceFromHex builds the service from a hex encoded key. Without
// a key a random one is generated outside production, which invalidates
// outstanding tokens on restart.
func NewPasetoServiceFromHex(hexKey string, production bool, clk clock.Clock) (*PasetoService, error) {
	if hexKey == "" {
		if production {
			return nil, ErrInsecureKey
		}
		return newPasetoService(paseto.NewV4SymmetricKey(), clk), nil
	}

	key, err := paseto.V4SymmetricKeyFromHex(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse symmetric key: %w", err)
	}
	return newPasetoService(key, clk), nil
}

func newPasetoService(key paseto.V4SymmetricKey, clk clock.Clock) *PasetoService {
	if clk == nil {
		clk = clock.System{}
	}
	return &PasetoService{symmetricKey: key, clock: clk}
}

// CreateToken generates a new PASETO v4.local token valid for TokenDuration
func (s *PasetoService) CreateToken(userID int64, email string) (IssuedToken, error) {
	now := s.clock.Now()
	expiresAt := now.Add(TokenDuration)

	token := paseto.NewToken()
	token.SetJti(uuid.NewString())
	// SetIssuedAt/SetExpiration format to whole seconds; GetExpiration parses
	// the fractional form back.
	token.SetString("iat", now.UTC().Format(time.RFC3339Nano))
	token.SetString("exp", expiresAt.UTC().Format(time.RFC3339Nano))
	token.SetString("email", email)
	if err := token.Set("userId", userID); err != nil {
		return IssuedToken{}, fmt.Errorf("failed to set user id claim: %w", err)
	}

	return IssuedToken{
		Token:     token.V4Encrypt(s.symmetricKey, nil),
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

// VerifyToken decrypts a v4.local token and then applies the expiry rule
// against the service clock.
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !s.clock.Now().Before(expiresAt) {
		return nil, ErrExpiredToken
	}

	var userID int64
	if err := token.Get("userId", &userID); err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}
	email, err := token.GetString("email")
	if err != nil {
		return nil, ErrInvalidToken
	}
	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}
	jti, _ := token.GetJti()

	return &TokenClaims{
		ID:        jti,
		UserID:    userID,
		Email:     email,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
