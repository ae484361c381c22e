package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"clinic-portal/internal/model"
)

func TestDoctorServiceList(t *testing.T) {
	t.Parallel()

	clinicA, clinicB := "clinic-a", "clinic-b"
	cardio := "Cardiology"
	users := newMemUsers(
		model.User{ID: "d-1", FirstName: "Hana", Role: model.RoleDoctor, ClinicID: &clinicA, Specialization: &cardio, IsActive: true},
		model.User{ID: "d-2", FirstName: "Omar", Role: model.RoleDoctor, ClinicID: &clinicB, IsActive: true},
		model.User{ID: "d-off", Role: model.RoleDoctor, ClinicID: &clinicA},
		model.User{ID: "s-1", Role: model.RoleSecretary, ClinicID: &clinicA, IsActive: true},
	)
	svc := NewDoctorService(users)
	ctx := context.Background()
	patient := &model.SessionUser{ID: "p-1", Role: model.RolePatient}

	all, err := svc.List(ctx, patient, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "d-1", all[0].ID)
	require.Equal(t, "Cardiology", *all[0].Specialization)

	scoped, err := svc.List(ctx, patient, " clinic-b ")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, "d-2", scoped[0].ID)

	_, err = svc.List(ctx, nil, "")
	require.ErrorIs(t, err, model.ErrUnauthorized)

	users.err = errStoreDown
	_, err = svc.List(ctx, patient, "")
	require.ErrorIs(t, err, errStoreDown)
}
