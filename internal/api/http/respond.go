package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/logger"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognized is a
// 500 with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	var authErr *domain.AuthProvisioningError
	var userErr *domain.UserRecordError

	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "validation_failed", Message: vErr.Reason, Field: vErr.Field,
		})
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, errorResponse{
			Code: "duplicate_email", Message: "an account or pending request already exists for this email",
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code: "not_found", Message: "resource not found",
		})
	case errors.Is(err, domain.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorResponse{
			Code: "invalid_state", Message: "registration request has already been decided",
		})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{
			Code: "conflict", Message: "a concurrent decision was applied first",
		})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Code: "identity_provider_error", Message: "failed to provision identity; the request remains pending",
		})
	case errors.As(err, &userErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code: "user_record_error", Message: "failed to create user record; the request remains pending",
		})
	default:
		logger.Error("unhandled error in http layer", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code: "internal_error", Message: "internal server error",
		})
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
