package auth

import (
	"errors"

	"github.com/redmonkez12/family-health-api/internal/apperr"
	"github.com/redmonkez12/family-health-api/internal/httputil"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthenticated, "INVALID_CREDENTIALS", "invalid email or password")
	ErrEmailRequired      = apperr.Validation("EMAIL_REQUIRED", "email is required")
	ErrInvalidEmailFormat = apperr.Validation("INVALID_EMAIL", "invalid email format")
	ErrPasswordRequired   = apperr.Validation("PASSWORD_REQUIRED", "password is required")
	ErrPasswordTooShort   = apperr.Validation("PASSWORD_TOO_SHORT", "password must be at least 8 characters")

	ErrMissingAuth       = apperr.New(apperr.KindUnauthenticated, httputil.CodeMissingAuth, "missing authentication")
	ErrInvalidAuthHeader = apperr.New(apperr.KindUnauthenticated, httputil.CodeInvalidAuthHeader, "invalid authorization header format")
	ErrInvalidToken      = apperr.New(apperr.KindInvalidToken, httputil.CodeInvalidToken, "invalid token")
	ErrExpiredToken      = apperr.New(apperr.KindTokenExpired, httputil.CodeTokenExpired, "token has expired")

	// ErrInsecureKey is returned when a production token service is built
	// without a key or with the development default.
	ErrInsecureKey = errors.New("signing key is missing or insecure")
)
