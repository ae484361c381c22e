package handler

import (
	"net/http"

	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
)

// PageHandler stands in for the page renderer. By the time it runs the route
// gate has already admitted the viewer, so it only describes what would be
// rendered.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

type pageView struct {
	Page    string             `json:"page"`
	Message string             `json:"message,omitempty"`
	Viewer  *model.SessionUser `json:"viewer,omitempty"`
}

func (h *PageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, pageView{
		Page:    r.URL.Path,
		Message: r.URL.Query().Get("message"),
		Viewer:  middleware.UserFromContext(r.Context()),
	}, nil)
}
