package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"clinic-portal/internal/model"
)

var allRoles = []model.Role{
	model.RoleSuperAdmin,
	model.RoleClinicAdmin,
	model.RoleDoctor,
	model.RoleSecretary,
	model.RolePurchasing,
	model.RolePatient,
}

func TestDefaultLandingRouteIsAllowed(t *testing.T) {
	t.Parallel()

	for _, role := range allRoles {
		landing := DefaultLandingRoute(role)
		require.Contains(t, AllowedRoutePrefixes(role), landing, "role %s", role)
		require.True(t, CanAccessPath(role, landing), "role %s", role)
	}
}

func TestAllowedRoutePrefixes(t *testing.T) {
	t.Parallel()

	expected := map[model.Role]string{
		model.RoleSuperAdmin:  "/admin",
		model.RoleClinicAdmin: "/clinic-admin",
		model.RoleDoctor:      "/doctor",
		model.RoleSecretary:   "/secretary",
		model.RolePurchasing:  "/purchasing",
		model.RolePatient:     "/patient",
	}
	for role, prefix := range expected {
		require.Equal(t, []string{prefix}, AllowedRoutePrefixes(role))
	}

	require.Empty(t, AllowedRoutePrefixes("janitor"))
	require.Equal(t, LoginPath, DefaultLandingRoute("janitor"))
}

func TestAllowedRoutePrefixesReturnsCopy(t *testing.T) {
	t.Parallel()

	prefixes := AllowedRoutePrefixes(model.RoleDoctor)
	prefixes[0] = "/admin"

	require.Equal(t, "/doctor", DefaultLandingRoute(model.RoleDoctor))
}

func TestCanAccessPath(t *testing.T) {
	t.Parallel()

	require.True(t, CanAccessPath(model.RoleDoctor, "/doctor"))
	require.True(t, CanAccessPath(model.RoleDoctor, "/doctor/appointments"))
	require.False(t, CanAccessPath(model.RoleDoctor, "/doctors"))
	require.False(t, CanAccessPath(model.RoleDoctor, "/clinic-admin"))
	require.False(t, CanAccessPath(model.RoleSuperAdmin, "/clinic-admin"))
	require.True(t, CanAccessPath(model.RoleClinicAdmin, "/clinic-admin/staff"))
}

func TestPathClassification(t *testing.T) {
	t.Parallel()

	require.True(t, IsProtectedPath("/patient"))
	require.True(t, IsProtectedPath("/purchasing/orders"))
	require.False(t, IsProtectedPath("/login"))
	require.False(t, IsProtectedPath("/error"))
	require.False(t, IsProtectedPath("/"))

	require.True(t, IsAuthPath("/login"))
	require.True(t, IsAuthPath("/register"))
	require.False(t, IsAuthPath("/login/help"))
	require.False(t, IsAuthPath("/change-password"))
}

func TestRequiresClinic(t *testing.T) {
	t.Parallel()

	require.True(t, RequiresClinic(model.RoleClinicAdmin))
	require.True(t, RequiresClinic(model.RoleDoctor))
	require.True(t, RequiresClinic(model.RoleSecretary))
	require.True(t, RequiresClinic(model.RolePurchasing))
	require.False(t, RequiresClinic(model.RoleSuperAdmin))
	require.False(t, RequiresClinic(model.RolePatient))
}
