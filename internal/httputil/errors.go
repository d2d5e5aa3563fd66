package httputil

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/family-health-api/internal/apperr"
	"github.com/redmonkez12/family-health-api/internal/logging"
)

// Responder is the single place where errors are turned into HTTP responses.
type Responder struct {
	exposeInternal bool
}

// NewResponder returns a Responder. When exposeInternal is set (development)
// unexpected errors are returned verbatim.
func NewResponder(exposeInternal bool) *Responder {
	return &Responder{exposeInternal: exposeInternal}
}

// Error maps err onto the taxonomy and writes {error, code}.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.GetLoggerFromContext(r.Context())

	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindUnexpected {
		logger.Error("request failed: internal error", "error", err.Error())
		message := "internal server error"
		if rs.exposeInternal {
			message = err.Error()
		}
		RespondErrorWithCode(w, message, CodeInternalError, http.StatusInternalServerError)
		return
	}

	status := StatusFor(ae.Kind)
	logger.Warn("request rejected", "code", ae.Code, "error", ae.Message)
	RespondErrorWithCode(w, ae.Message, ae.Code, status)
}

// StatusFor returns the HTTP status of an error kind.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated, apperr.KindTokenExpired:
		return http.StatusUnauthorized
	case apperr.KindInvalidToken:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
