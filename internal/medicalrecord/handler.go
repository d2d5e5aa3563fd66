package medicalrecord

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

// List returns the records of a family member
// @Summary      List medical records
// @Tags         medical-records
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Success      200 {array} domain.MedicalRecord
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/medical-records [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, familyMemberID, ok := h.parent(w, r)
	if !ok {
		return
	}

	records, err := h.service.List(r.Context(), userID, familyMemberID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, records, http.StatusOK)
}

// Create files a new record
// @Summary      Create medical record
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        request body CreateInput true "Medical record"
// @Success      201 {object} domain.MedicalRecord
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/medical-records [post]
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

	rec, err := h.service.Create(r.Context(), userID, familyMemberID, in)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, rec, http.StatusCreated)
}

// Get returns one record
// @Summary      Get medical record
// @Tags         medical-records
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        recordId path int true "Record id"
// @Success      200 {object} domain.MedicalRecord
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/medical-records/{recordId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, familyMemberID, id, ok := h.item(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Get(r.Context(), userID, familyMemberID, id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, rec, http.StatusOK)
}

// Update changes the provided fields of a record
// @Summary      Update medical record
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        recordId path int true "Record id"
// @Param        request body UpdateInput true "Fields to change"
// @Success      200 {object} domain.MedicalRecord
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/medical-records/{recordId} [put]
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

	rec, err := h.service.Update(r.Context(), userID, familyMemberID, id, in)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, rec, http.StatusOK)
}

// Delete removes a record
// @Summary      Delete medical record
// @Tags         medical-records
// @Produce      json
// @Security     BearerAuth
// @Param        familyMemberId path int true "Family member id"
// @Param        recordId path int true "Record id"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /family-members/{familyMemberId}/medical-records/{recordId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, familyMemberID, id, ok := h.item(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Delete(r.Context(), userID, familyMemberID, id)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	httputil.RespondJSON(w, httputil.MessageResponse{
		Message: "medical record deleted successfully",
		Deleted: rec,
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
	id, err := httputil.IDParam(r, httputil.ParamRecordID)
	if err != nil {
		h.responder.Error(w, r, err)
		return 0, 0, 0, false
	}
	return userID, familyMemberID, id, true
}
