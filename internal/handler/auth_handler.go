package handler

import (
	"net/http"

	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
	"clinic-portal/internal/service"
	"clinic-portal/internal/session"
)

type AuthHandler struct {
	auth   *service.AuthService
	resets *service.ResetService
	cookie session.CookieOptions
}

func NewAuthHandler(auth *service.AuthService, resets *service.ResetService, cookie session.CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, resets: resets, cookie: cookie}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	result, err := h.auth.Login(r.Context(), payload.Email, payload.Password, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	session.SetCookie(w, result.Token, h.cookie)
	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	profile, err := h.auth.Register(r.Context(), payload, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, profile, nil)
}

// Logout always succeeds; there is no server-side session to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user := middleware.UserFromContext(r.Context()); user != nil {
		h.auth.RecordLogout(r.Context(), actorFromRequest(r))
	}

	session.ClearCookie(w, h.cookie)
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ForgotPasswordRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	message, err := h.resets.RequestReset(r.Context(), payload.Email, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, message)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ResetPasswordRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.resets.ConsumeReset(r.Context(), payload.Token, payload.Password, actorFromRequest(r)); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password has been reset. You can now sign in.")
}

type changePasswordResult struct {
	Message      string `json:"message"`
	RedirectPath string `json:"redirect_path"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.ChangePasswordRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user, payload.CurrentPassword, payload.NewPassword, actorFromRequest(r)); err != nil {
		writeError(w, err)
		return
	}

	updated := *user
	updated.MustChangePassword = false
	writeSuccess(w, http.StatusOK, changePasswordResult{
		Message:      "Password updated",
		RedirectPath: service.PostLoginPath(&updated),
	}, nil)
}
