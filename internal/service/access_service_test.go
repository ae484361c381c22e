package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"clinic-portal/internal/model"
)

func TestAccessService(t *testing.T) {
	t.Parallel()

	clinicA, clinicB := "clinic-a", "clinic-b"
	users := newMemUsers(
		model.User{ID: "p-1", Role: model.RolePatient, IsActive: true},
		model.User{ID: "d-1", Role: model.RoleDoctor, ClinicID: &clinicA, IsActive: true},
	)
	perms := &memPermissions{grants: map[model.Role][]string{
		model.RoleDoctor: {"appointments:read", "patients:read"},
	}}
	svc := NewAccessService(users, perms)
	ctx := context.Background()

	patient := &model.SessionUser{ID: "p-1", Role: model.RolePatient}
	doctorB := &model.SessionUser{ID: "d-2", Role: model.RoleDoctor, ClinicID: &clinicB}
	super := &model.SessionUser{ID: "s-1", Role: model.RoleSuperAdmin}

	t.Run("patients see only themselves", func(t *testing.T) {
		require.True(t, svc.CanAccessPatientData(ctx, patient, "p-1"))
		require.False(t, svc.CanAccessPatientData(ctx, patient, "p-2"))
	})

	t.Run("staff of any clinic see existing patients only", func(t *testing.T) {
		require.True(t, svc.CanAccessPatientData(ctx, doctorB, "p-1"))
		require.False(t, svc.CanAccessPatientData(ctx, doctorB, "d-1"))
		require.False(t, svc.CanAccessPatientData(ctx, doctorB, "missing"))
	})

	t.Run("super admin is not a patient reader", func(t *testing.T) {
		require.False(t, svc.CanAccessPatientData(ctx, super, "p-1"))
	})

	t.Run("lookup failure denies", func(t *testing.T) {
		broken := newMemUsers()
		broken.err = errStoreDown
		require.False(t, NewAccessService(broken, perms).CanAccessPatientData(ctx, doctorB, "p-1"))
	})

	t.Run("permissions reload per call", func(t *testing.T) {
		before := perms.calls
		require.True(t, svc.HasPermission(ctx, doctorB, "appointments", "read"))
		require.False(t, svc.HasPermission(ctx, doctorB, "appointments", "delete"))
		require.Equal(t, before+2, perms.calls)
	})

	t.Run("super admin skips the lookup", func(t *testing.T) {
		before := perms.calls
		require.True(t, svc.HasPermission(ctx, super, "anything", "at-all"))
		require.Equal(t, before, perms.calls)
	})

	t.Run("permission load failure denies", func(t *testing.T) {
		broken := &memPermissions{err: errStoreDown}
		require.False(t, NewAccessService(users, broken).HasPermission(ctx, doctorB, "appointments", "read"))
	})

	t.Run("clinic scoping", func(t *testing.T) {
		adminA := &model.SessionUser{ID: "a-1", Role: model.RoleClinicAdmin, ClinicID: &clinicA}
		require.True(t, svc.CanAccessClinicData(adminA, clinicA))
		require.False(t, svc.CanAccessClinicData(adminA, clinicB))
		require.True(t, svc.CanAccessClinicData(super, clinicB))
	})
}
