package auth

import (
	"net/http"

	"github.com/redmonkez12/family-health-api/internal/httputil"
	"github.com/redmonkez12/family-health-api/internal/logging"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service   *Service
	responder *httputil.Responder
}

func NewHandler(service *Service, responder *httputil.Responder) *Handler {
	return &Handler{service: service, responder: responder}
}

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Registration credentials"
// @Success      201 {object} domain.PublicUser
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	created, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("registration succeeded", "user_id", created.ID)
	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Login handles user login
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Login credentials"
// @Success      200 {object} IssuedToken
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, token, http.StatusOK)
}

// Me returns the authenticated user
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} domain.PublicUser
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := UserID(r.Context())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	u, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, u, http.StatusOK)
}
