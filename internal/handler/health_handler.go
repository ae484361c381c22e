package handler

import (
	"context"
	"log/slog"
	"net/http"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeSuccess(w, http.StatusServiceUnavailable, map[string]string{"database": "not configured"}, nil)
		return
	}
	if err := h.db.Health(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "database health check failed", "error", err)
		writeSuccess(w, http.StatusServiceUnavailable, map[string]string{"database": "unreachable"}, nil)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"database": "ok"}, nil)
}
