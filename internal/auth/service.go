package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/redmonkez12/family-health-api/internal/apperr"
	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/logging"
)

const (
	maxEmailLength    = 254
	minPasswordLength = 8
)

// Service handles authentication business logic
type Service struct {
	users        UserStore
	hasher       *PasswordHasher
	tokenService TokenService
	logger       *logging.Logger
	dummyHash    string
}

func NewService(users UserStore, hasher *PasswordHasher, tokenService TokenService, logger *logging.Logger) (*Service, error) {
	// Login against an unknown email still runs one comparison against this.
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &Service{
		users:        users,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
		dummyHash:    dummyHash,
	}, nil
}

// normalizeEmail trims and lower-cases the address and validates its form.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	if len(email) > maxEmailLength {
		return "", ErrInvalidEmailFormat
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmailFormat
	}
	return email, nil
}

// Register creates a new user account. Uniqueness is decided by the store, so
// two concurrent registrations of one address cannot both succeed.
func (s *Service) Register(ctx context.Context, email, password string) (domain.PublicUser, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.PublicUser{}, err
	}
	if password == "" {
		return domain.PublicUser{}, ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return domain.PublicUser{}, ErrPasswordTooShort
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.PublicUser{}, apperr.Unexpected(fmt.Errorf("failed to hash password: %w", err))
	}

	created, err := s.users.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.PublicUser{}, domain.ErrDuplicateEmail
		}
		return domain.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID)
	return created.Public(), nil
}

// Login authenticates a user and issues a token. Unknown email and wrong
// password return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (IssuedToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return IssuedToken{}, ErrInvalidCredentials
	}

	existing, found, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		s.hasher.Verify(s.dummyHash, password)
		return IssuedToken{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(existing.PasswordHash, password) {
		return IssuedToken{}, ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(existing.ID, existing.Email)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("failed to create token: %w", err)
	}
	return token, nil
}

// CurrentUser returns the public view of the authenticated user.
func (s *Service) CurrentUser(ctx context.Context, userID int64) (domain.PublicUser, error) {
	u, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return domain.PublicUser{}, domain.ErrNotFound.WithDetail("user")
	}
	return u.Public(), nil
}
