package policy

import (
	"strings"

	"clinic-portal/internal/model"
)

// CanAccessClinicData allows super admins everywhere and everybody else only
// inside their own clinic.
func CanAccessClinicData(user *model.SessionUser, targetClinicID string) bool {
	if user == nil {
		return false
	}
	if user.Role == model.RoleSuperAdmin {
		return true
	}
	if !user.HasClinic() || targetClinicID == "" {
		return false
	}
	return *user.ClinicID == targetClinicID
}

// CanAccessPatientData lets a patient see only their own record. Staff of any
// clinic may see any record that belongs to an existing patient; patients are
// not clinic scoped. patientExists must come from the credential store.
func CanAccessPatientData(user *model.SessionUser, patientID string, patientExists bool) bool {
	if user == nil || patientID == "" {
		return false
	}
	if user.Role == model.RolePatient {
		return user.ID == patientID
	}
	if IsStaff(user.Role) {
		return patientExists
	}
	return false
}

// PermissionSet holds "resource:action" grants.
type PermissionSet map[string]struct{}

func Permission(resource string, action string) string {
	return strings.TrimSpace(resource) + ":" + strings.TrimSpace(action)
}

func NewPermissionSet(perms ...string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(resource string, action string) bool {
	_, ok := s[Permission(resource, action)]
	return ok
}

// HasPermission grants everything to super admins and otherwise requires an
// exact resource:action entry in the role's grants.
func HasPermission(user *model.SessionUser, grants PermissionSet, resource string, action string) bool {
	if user == nil {
		return false
	}
	if user.Role == model.RoleSuperAdmin {
		return true
	}
	if resource == "" || action == "" {
		return false
	}
	return grants.Has(resource, action)
}
