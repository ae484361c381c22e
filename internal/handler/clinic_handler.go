package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
	"clinic-portal/internal/service"
)

type ClinicHandler struct {
	service *service.ClinicService
}

func NewClinicHandler(service *service.ClinicService) *ClinicHandler {
	return &ClinicHandler{service: service}
}

func (h *ClinicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateClinicRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	clinic, err := h.service.Create(r.Context(), middleware.UserFromContext(r.Context()), payload, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, clinic, nil)
}

func (h *ClinicHandler) List(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.service.List(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ClinicList{Clinics: clinics}, nil)
}

func (h *ClinicHandler) Get(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.service.Get(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "clinicId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, clinic, nil)
}
