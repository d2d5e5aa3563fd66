package familymember

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

// List returns the caller's family members
// @Summary      List family members
// @Tags         family-members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} domain.FamilyMember
// @Router       /family-members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	members, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, members, http.StatusOK)
}

// Create adds a family member
// @Summary      Create family member
// @Tags         family-members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateInput true "Family member"
// @Success      201 {object} domain.FamilyMember
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /family-members [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	var in CreateInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	fm, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, fm, http.StatusCreated)
}

// Get returns one family member
// @Summary      Get family member
// @Tags         family-members
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Success      200 {object} domain.FamilyMember
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ids(w, r)
	if !ok {
		return
	}

	fm, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, fm, http.StatusOK)
}

// Update changes the provided fields of a family member
// @Summary      Update family member
// @Tags         family-members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        request body UpdateInput true "Fields to change"
// @Success      200 {object} domain.FamilyMember
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ids(w, r)
	if !ok {
		return
	}

	var in UpdateInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	fm, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, fm, http.StatusOK)
}

// Delete removes a family member and its records
// @Summary      Delete family member
// @Tags         family-members
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ids(w, r)
	if !ok {
		return
	}

	fm, err := h.service.Delete(r.Context(), userID, id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, httputil.MessageResponse{
		Message: "family member deleted successfully",
		Deleted: fm,
	}, http.StatusOK)
}

func (h *Handler) ids(w http.ResponseWriter, r *http.Request) (userID, id int64, ok bool) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		h.responder.Error(w, r, err)
		return 0, 0, false
	}
	id, err = httputil.IDParam(r, httputil.ParamFamilyMemberID)
	if err != nil {
		h.responder.Error(w, r, err)
		return 0, 0, false
	}
	return userID, id, true
}
