package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"

	"github.com/vyhuholl/order-management-rest-api/internal/service"
)

type ErrorResponse struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, ErrorResponse{
		Detail:    detail,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

// WriteServiceError maps service errors onto status codes. Anything it does
// not recognise is logged and reported as 500 without details.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		WriteError(w, r, http.StatusUnprocessableEntity, validationDetail(err))
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, r, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrUserNotFound):
		WriteError(w, r, http.StatusUnauthorized, "User not found")
	case errors.Is(err, service.ErrUnauthenticated):
		WriteError(w, r, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, r, http.StatusForbidden, "Not allowed to list another user's orders")
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrConflict):
		WriteError(w, r, http.StatusConflict, "Email already registered")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		WriteError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func validationDetail(err error) string {
	return strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
}

// decodeJSON reports malformed or missing bodies as 422.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, r, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	return true
}
