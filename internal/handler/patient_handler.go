package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
	"clinic-portal/internal/service"
)

type PatientHandler struct {
	service *service.PatientService
}

func NewPatientHandler(service *service.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "patientId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile, nil)
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateProfileRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "patientId"), payload, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile, nil)
}
