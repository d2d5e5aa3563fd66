package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/family-health-api/internal/apperr"
)

const maxBodyBytes = 1 << 20

// URL parameter names shared by the nested resource routes.
const (
	ParamFamilyMemberID = "familyMemberId"
	ParamRecordID       = "recordId"
	ParamPrescriptionID = "prescriptionId"
	ParamIndicatorID    = "indicatorId"
)

var (
	ErrInvalidRequestBody = apperr.Validation(CodeInvalidRequestBody, "invalid request body")
	ErrInvalidID          = apperr.Validation(CodeInvalidID, "invalid id")
)

// IDParam reads a positive decimal id from the named URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID.WithDetail("%s", name)
	}
	return id, nil
}

// DecodeJSON decodes the request body into v. An empty body is a validation error.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrInvalidRequestBody.WithDetail("empty body")
		}
		return ErrInvalidRequestBody
	}
	return nil
}
