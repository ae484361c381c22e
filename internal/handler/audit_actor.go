package handler

import (
	"net/http"

	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
)

func actorFromRequest(r *http.Request) model.AuditActor {
	actor := model.AuditActor{IP: middleware.ClientIP(r)}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		return actor
	}

	actor.UserID = user.ID
	actor.Email = user.Email
	actor.Role = string(user.Role)

	return actor
}
