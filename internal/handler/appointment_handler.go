package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
	"clinic-portal/internal/service"
)

type AppointmentHandler struct {
	service *service.AppointmentService
}

func NewAppointmentHandler(service *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var payload model.BookAppointmentRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	appt, err := h.service.Book(r.Context(), middleware.UserFromContext(r.Context()), payload, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, appt, nil)
}

func (h *AppointmentHandler) ListForPatient(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListForPatient(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "patientId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AppointmentList{Appointments: items}, nil)
}

func (h *AppointmentHandler) ListForClinic(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListForClinic(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "clinicId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AppointmentList{Appointments: items}, nil)
}
