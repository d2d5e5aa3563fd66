package healthindicator

import (
	"net/http"

	"github.com/redmonkez12/family-health-api/internal/auth"
	"github.com/redmonkez12/family-health-api/internal/httputil"
)

type Handler struct {
	service   *Service
	responder *httputil.Responder
}

func NewHandler(service *Service, responder *httputil.Responder) *Handler {
	return &Handler{service: service, responder: responder}
}

// List returns the indicators of a family member
// @Summary      List health indicators
// @Tags         health-indicators
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Success      200 {array} domain.HealthIndicator
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/health-indicators [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, familyMemberID, ok := h.parent(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), userID, familyMemberID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, list, http.StatusOK)
}

// Create stores a new reading
// @Summary      Create health indicator
// @Tags         health-indicators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        request body CreateInput true "Health indicator"
// @Success      201 {object} domain.HealthIndicator
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/health-indicators [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, familyMemberID, ok := h.parent(w, r)
	if !ok {
		return
	}

	var in CreateInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	hi, err := h.service.Create(r.Context(), userID, familyMemberID, in)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, hi, http.StatusCreated)
}

// Get returns one indicator
// @Summary      Get health indicator
// @Tags         health-indicators
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        indicatorId path int true "Indicator id"
// @Success      200 {object} domain.HealthIndicator
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/health-indicators/{indicatorId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, familyMemberID, id, ok := h.item(w, r)
	if !ok {
		return
	}

	hi, err := h.service.Get(r.Context(), userID, familyMemberID, id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, hi, http.StatusOK)
}

// Update changes the provided fields of an indicator
// @Summary      Update health indicator
// @Tags         health-indicators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        indicatorId path int true "Indicator id"
// @Param        request body UpdateInput true "Fields to change"
// @Success      200 {object} domain.HealthIndicator
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/health-indicators/{indicatorId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, familyMemberID, id, ok := h.item(w, r)
	if !ok {
		return
	}

	var in UpdateInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	hi, err := h.service.Update(r.Context(), userID, familyMemberID, id, in)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, hi, http.StatusOK)
}

// Delete removes an indicator
// @Summary      Delete health indicator
// @Tags         health-indicators
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        indicatorId path int true "Indicator id"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/health-indicators/{indicatorId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, familyMemberID, id, ok := h.item(w, r)
	if !ok {
		return
	}

	hi, err := h.service.Delete(r.Context(), userID, familyMemberID, id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, httputil.MessageResponse{
		Message: "health indicator deleted successfully",
		Deleted: hi,
	}, http.StatusOK)
}

func (h *Handler) parent(w http.ResponseWriter, r *http.Request) (userID, familyMemberID int64, ok bool) {
	userID, err := auth.UserID(r.Context())
	if err == nil {
		familyMemberID, err = httputil.IDParam(r, httputil.ParamFamilyMemberID)
	}
	if err != nil {
		h.responder.Error(w, r, err)
		return 0, 0, false
	}
	return userID, familyMemberID, true
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) (userID, familyMemberID, id int64, ok bool) {
	userID, familyMemberID, ok = h.parent(w, r)
	if !ok {
		return 0, 0, 0, false
	}
	id, err := httputil.IDParam(r, httputil.ParamIndicatorID)
	if err != nil {
		h.responder.Error(w, r, err)
		return 0, 0, 0, false
	}
	return userID, familyMemberID, id, true
}
