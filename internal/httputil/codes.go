package httputil

// Machine-readable codes for errors raised by the HTTP layer itself. Service
// errors carry their own code on *apperr.Error.
const (
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInvalidID          = "INVALID_ID"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternalError      = "INTERNAL_ERROR"
)
