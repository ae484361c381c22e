package middleware

import (
	"log/slog"
	"net/http"

	"clinic-portal/internal/model"
	"clinic-portal/internal/policy"
	"clinic-portal/internal/session"
)

// RouteGate is the page-level access check. It never renders a 403: every
// denial is a redirect to the place the viewer belongs.
type RouteGate struct {
	resolver sessionResolver
}

func NewRouteGate(resolver sessionResolver) *RouteGate {
	return &RouteGate{resolver: resolver}
}

func (g *RouteGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case policy.IsAuthPath(path):
			user := g.resolve(r)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}
			if user.MustChangePassword {
				redirect(w, r, policy.ChangePasswordPath)
				return
			}
			landing := policy.DefaultLandingRoute(user.Role)
			if landing == path || policy.IsAuthPath(landing) {
				// a role with no landing route has nowhere else to go
				next.ServeHTTP(w, r)
				return
			}
			redirect(w, r, landing)

		case path == policy.ChangePasswordPath:
			user := g.resolve(r)
			if user == nil {
				redirect(w, r, policy.LoginPath)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))

		case policy.IsProtectedPath(path):
			user := g.resolve(r)
			if user == nil {
				redirect(w, r, policy.LoginPath)
				return
			}
			if target, ok := protectedRedirect(user, path); ok {
				redirect(w, r, target)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))

		default:
			next.ServeHTTP(w, r)
		}
	})
}

// protectedRedirect applies the checks for an authenticated viewer on a
// role-gated path, in order: forced password change, role prefix, clinic
// assignment.
func protectedRedirect(user *model.SessionUser, path string) (string, bool) {
	if user.MustChangePassword {
		return policy.ChangePasswordPath, true
	}
	if !policy.CanAccessPath(user.Role, path) {
		return policy.DefaultLandingRoute(user.Role), true
	}
	if policy.RequiresClinic(user.Role) && !user.HasClinic() {
		slog.Warn("staff account without clinic", "user_id", user.ID, "role", string(user.Role))
		return policy.NoClinicAssignedPath, true
	}
	return "", false
}

func (g *RouteGate) resolve(r *http.Request) *model.SessionUser {
	token := session.TokenFromRequest(r)
	if token == "" {
		return nil
	}
	return g.resolver.Resolve(r.Context(), token)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}
