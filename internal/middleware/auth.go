package middleware

import (
	"context"
	"net/http"

	"clinic-portal/internal/model"
	"clinic-portal/internal/policy"
	"clinic-portal/internal/session"
)

type sessionResolver interface {
	Resolve(ctx context.Context, token string) *model.SessionUser
}

type contextKey string

const sessionUserContextKey contextKey = "session_user"

// SessionMiddleware attaches the resolved session user to API requests.
type SessionMiddleware struct {
	resolver sessionResolver
}

func NewSessionMiddleware(resolver sessionResolver) *SessionMiddleware {
	return &SessionMiddleware{resolver: resolver}
}

// LoadSession resolves the session cookie when one is present. It never
// rejects; RequireSession does that.
func (m *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := session.TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user := m.resolver.Resolve(r.Context(), token)
		if user == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireRoles(allowedRoles ...model.Role) func(http.Handler) http.Handler {
	roleSet := make(map[model.Role]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			if _, ok := roleSet[user.Role]; !ok {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type PermissionChecker interface {
	HasPermission(ctx context.Context, user *model.SessionUser, resource string, action string) bool
}

// RequirePermission checks the role's resource:action grant on each request.
func RequirePermission(checker PermissionChecker, resource string, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			if !checker.HasPermission(r.Context(), user, resource, action) {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePasswordCurrent blocks accounts that still have to replace their
// initial password.
func RequirePasswordCurrent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := UserFromContext(r.Context()); user != nil && user.MustChangePassword {
			writeJSONError(w, http.StatusForbidden, "PASSWORD_CHANGE_REQUIRED", "password change required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireClinic rejects staff accounts that have no clinic assignment.
func RequireClinic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user != nil && policy.RequiresClinic(user.Role) && !user.HasClinic() {
			writeJSONError(w, http.StatusForbidden, "NO_CLINIC_ASSIGNED", "account has no clinic assigned")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user *model.SessionUser) context.Context {
	if info := requestInfoFrom(ctx); info != nil && user != nil {
		info.userID = user.ID
	}
	return context.WithValue(ctx, sessionUserContextKey, user)
}

func UserFromContext(ctx context.Context) *model.SessionUser {
	user, _ := ctx.Value(sessionUserContextKey).(*model.SessionUser)
	return user
}
