package domain

import "github.com/redmonkez12/family-health-api/internal/apperr"

var (
	ErrInvalidDate     = apperr.Validation("INVALID_DATE", "invalid date")
	ErrRequiredField   = apperr.Validation("REQUIRED_FIELD", "field is required")
	ErrNoUpdateData    = apperr.Validation("NO_UPDATE_DATA", "no update data provided")
	ErrInvalidDateSpan = apperr.Validation("INVALID_DATE_RANGE", "endDate must not be before startDate")

	// ErrNotFound is returned for both absent and foreign-owned resources.
	ErrNotFound       = apperr.NotFound("NOT_FOUND", "resource not found")
	ErrParentNotFound = apperr.NotFound("FAMILY_MEMBER_NOT_FOUND", "family member not found")

	ErrDuplicateEmail = apperr.Conflict("EMAIL_ALREADY_EXISTS", "email already exists")
)
