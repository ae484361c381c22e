package policy

import (
	"strings"

	"clinic-portal/internal/model"
)

const (
	LoginPath          = "/login"
	RegisterPath       = "/register"
	ChangePasswordPath = "/change-password"
	ErrorPath          = "/error"

	// NoClinicAssignedPath is where staff accounts without a clinic are sent.
	NoClinicAssignedPath = ErrorPath + "?message=no-clinic-assigned"
)

type roleRule struct {
	prefixes       []string
	requiresClinic bool
}

// roleRules is the single source of truth for role -> route access. The first
// prefix of each rule is the role's landing route.
var roleRules = map[model.Role]roleRule{
	model.RoleSuperAdmin:  {prefixes: []string{"/admin"}},
	model.RoleClinicAdmin: {prefixes: []string{"/clinic-admin"}, requiresClinic: true},
	model.RoleDoctor:      {prefixes: []string{"/doctor"}, requiresClinic: true},
	model.RoleSecretary:   {prefixes: []string{"/secretary"}, requiresClinic: true},
	model.RolePurchasing:  {prefixes: []string{"/purchasing"}, requiresClinic: true},
	model.RolePatient:     {prefixes: []string{"/patient"}},
}

var protectedPrefixes = []string{"/admin", "/clinic-admin", "/doctor", "/secretary", "/purchasing", "/patient"}

var authPaths = map[string]struct{}{
	LoginPath:    {},
	RegisterPath: {},
}

// AllowedRoutePrefixes returns a copy of the prefixes the role may visit.
// Unknown roles get an empty set.
func AllowedRoutePrefixes(role model.Role) []string {
	rule, ok := roleRules[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(rule.prefixes))
	copy(out, rule.prefixes)
	return out
}

// DefaultLandingRoute is the first allowed prefix of the role, or the login
// page for roles outside the table.
func DefaultLandingRoute(role model.Role) string {
	rule, ok := roleRules[role]
	if !ok || len(rule.prefixes) == 0 {
		return LoginPath
	}
	return rule.prefixes[0]
}

// RequiresClinic reports whether accounts of this role must carry a clinic id.
func RequiresClinic(role model.Role) bool {
	return roleRules[role].requiresClinic
}

func IsStaff(role model.Role) bool {
	switch role {
	case model.RoleClinicAdmin, model.RoleDoctor, model.RoleSecretary, model.RolePurchasing:
		return true
	}
	return false
}

// CanAccessPath reports whether path lies under one of the role's prefixes.
func CanAccessPath(role model.Role, path string) bool {
	for _, prefix := range roleRules[role].prefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func IsProtectedPath(path string) bool {
	for _, prefix := range protectedPrefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func IsAuthPath(path string) bool {
	_, ok := authPaths[path]
	return ok
}

// hasPathPrefix matches whole segments so "/doctors" is not under "/doctor".
func hasPathPrefix(path string, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
