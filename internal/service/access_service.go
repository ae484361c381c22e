package service

import (
	"context"
	"log/slog"

	"clinic-portal/internal/model"
	"clinic-portal/internal/policy"
)

// AccessService feeds store lookups into the pure policy checks. Every lookup
// failure is a denial.
type AccessService struct {
	patients    patientLookup
	permissions permissionLoader
}

func NewAccessService(patients patientLookup, permissions permissionLoader) *AccessService {
	return &AccessService{patients: patients, permissions: permissions}
}

func (s *AccessService) CanAccessClinicData(user *model.SessionUser, clinicID string) bool {
	return policy.CanAccessClinicData(user, clinicID)
}

func (s *AccessService) CanAccessPatientData(ctx context.Context, user *model.SessionUser, patientID string) bool {
	if user == nil || patientID == "" {
		return false
	}
	if user.Role == model.RolePatient {
		return policy.CanAccessPatientData(user, patientID, false)
	}
	if !policy.IsStaff(user.Role) {
		return false
	}

	exists, err := s.patients.PatientExists(ctx, patientID)
	if err != nil {
		slog.WarnContext(ctx, "patient lookup failed, denying access", "patient_id", patientID, "error", err)
		return false
	}
	return policy.CanAccessPatientData(user, patientID, exists)
}

// HasPermission reloads the role's grants on every call.
func (s *AccessService) HasPermission(ctx context.Context, user *model.SessionUser, resource string, action string) bool {
	if user == nil {
		return false
	}
	if user.Role == model.RoleSuperAdmin {
		return true
	}

	perms, err := s.permissions.PermissionsForRole(ctx, user.Role)
	if err != nil {
		slog.WarnContext(ctx, "permission load failed, denying", "role", string(user.Role), "error", err)
		return false
	}
	return policy.HasPermission(user, policy.NewPermissionSet(perms...), resource, action)
}
