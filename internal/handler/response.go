package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"clinic-portal/internal/model"
	"clinic-portal/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeSuccess(w, status, model.MessageData{Message: message}, nil)
}

// writeError maps service errors onto the response envelope. Anything not
// recognised is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid credentials"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	case errors.Is(err, model.ErrNoClinicAssigned):
		status = http.StatusForbidden
		body.Code = "NO_CLINIC_ASSIGNED"
		body.Message = "Account has no clinic assigned"
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "An account with this email already exists"
	case errors.Is(err, model.ErrSlotTaken):
		status = http.StatusConflict
		body.Code = "SLOT_TAKEN"
		body.Message = "This time slot is already booked"
	case errors.Is(err, model.ErrResetTokenInvalid):
		status = http.StatusBadRequest
		body.Code = "INVALID_TOKEN"
		body.Message = "Invalid or expired reset token"
	case errors.Is(err, model.ErrResetTokenExpired):
		status = http.StatusBadRequest
		body.Code = "TOKEN_EXPIRED"
		body.Message = "Reset token has expired"
	case errors.Is(err, model.ErrSigningKeyMissing):
		status = http.StatusServiceUnavailable
		body.Code = "AUTH_UNAVAILABLE"
		body.Message = "Sign-in is temporarily unavailable"
		slog.Error("session secret missing, cannot issue sessions")
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	case errors.Is(err, model.ErrClinicNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Clinic not found"
	case errors.Is(err, model.ErrDoctorNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Doctor not found"
	case errors.Is(err, model.ErrAppointmentNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Appointment not found"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// decodeJSON reads a bounded JSON body. On failure the 400 has already been
// written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return false
	}
	return true
}

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
