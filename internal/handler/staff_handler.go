package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
	"clinic-portal/internal/service"
	"clinic-portal/pkg/apierror"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StaffHandler struct {
	service *service.StaffService
}

func NewStaffHandler(service *service.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateStaffRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	profile, err := h.service.CreateStaff(r.Context(), middleware.UserFromContext(r.Context()), payload, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, profile, nil)
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff, err := h.service.ListStaff(r.Context(), middleware.UserFromContext(r.Context()), r.URL.Query().Get("clinic_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.StaffList{Staff: staff}, nil)
}

func (h *StaffHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, apierror.BadRequest("user id is required", "userId"))
		return
	}

	var payload model.SetActiveRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.IsActive == nil {
		writeError(w, apierror.BadRequest("isActive is required", "isActive"))
		return
	}

	profile, err := h.service.SetActive(r.Context(), middleware.UserFromContext(r.Context()), userID, *payload.IsActive, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile, nil)
}

func (h *StaffHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportStaff(r.Context(), middleware.UserFromContext(r.Context()), r.URL.Query().Get("clinic_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("staff-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
