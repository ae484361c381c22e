package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinic-portal/internal/model"
	"clinic-portal/internal/policy"
	"clinic-portal/pkg/apierror"
)

// creatableStaffRoles are the roles a clinic admin may hand out.
var creatableStaffRoles = map[model.Role]bool{
	model.RoleDoctor:     true,
	model.RoleSecretary:  true,
	model.RolePurchasing: true,
}

type StaffService struct {
	users staffStore
	audit *AuditService
	now   func() time.Time
}

func NewStaffService(users staffStore, audit *AuditService) *StaffService {
	return &StaffService{users: users, audit: audit, now: time.Now}
}

// CreateStaff adds a doctor, secretary or purchasing account to the admin's
// own clinic. New accounts must change their password on first login.
func (s *StaffService) CreateStaff(ctx context.Context, admin *model.SessionUser, req model.CreateStaffRequest, actor model.AuditActor) (model.Profile, error) {
	if admin == nil {
		return model.Profile{}, model.ErrUnauthorized
	}
	if admin.Role != model.RoleClinicAdmin {
		return model.Profile{}, model.ErrForbidden
	}
	if !admin.HasClinic() {
		return model.Profile{}, model.ErrNoClinicAssigned
	}
	clinicID := *admin.ClinicID
	if req.ClinicID != "" && req.ClinicID != clinicID {
		return model.Profile{}, model.ErrForbidden
	}

	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !creatableStaffRoles[role] {
		return model.Profile{}, apierror.BadRequest("Role must be doctor, secretary or purchasing", "role")
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	email := normalizeEmail(req.Email)
	if req.FirstName == "" || req.LastName == "" || email == "" || req.Password == "" {
		return model.Profile{}, apierror.BadRequest("Missing required fields", "")
	}
	if !validEmail(email) {
		return model.Profile{}, apierror.BadRequest("Invalid email format", "email")
	}
	if err := validatePassword(req.Password); err != nil {
		return model.Profile{}, err
	}

	taken, err := s.users.ExistsByEmail(ctx, email, "")
	if err != nil {
		return model.Profile{}, err
	}
	if taken {
		return model.Profile{}, model.ErrEmailTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return model.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := model.User{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       hash,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Phone:              optional(req.Phone),
		Role:               role,
		ClinicID:           &clinicID,
		IsActive:           true,
		MustChangePassword: true,
		Department:         optional(req.Department),
		Specialization:     optional(req.Specialization),
		LicenseNumber:      optional(req.LicenseNumber),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return model.Profile{}, err
	}

	s.audit.Record(ctx, model.AuditStaffCreated, actor, model.AuditStatusSuccess, user.ID,
		map[string]string{"role": string(role), "clinic_id": clinicID}, "")

	return user.Profile(), nil
}

func (s *StaffService) ListStaff(ctx context.Context, viewer *model.SessionUser, clinicID string) ([]model.Profile, error) {
	users, err := s.staffOf(ctx, viewer, clinicID)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// staffOf resolves the target clinic (a super admin must name one) and
// applies clinic scoping before reading.
func (s *StaffService) staffOf(ctx context.Context, viewer *model.SessionUser, clinicID string) ([]model.User, error) {
	if viewer == nil {
		return nil, model.ErrUnauthorized
	}
	clinicID = strings.TrimSpace(clinicID)
	if clinicID == "" {
		if !viewer.HasClinic() {
			return nil, apierror.BadRequest("clinic_id is required", "clinic_id")
		}
		clinicID = *viewer.ClinicID
	}
	if !policy.CanAccessClinicData(viewer, clinicID) {
		return nil, model.ErrForbidden
	}
	return s.users.ListByClinic(ctx, clinicID)
}

// SetActive toggles a staff account. The change is seen by the target's next
// request because sessions re-read the account every time. Clinic admins can
// only be toggled by a super admin.
func (s *StaffService) SetActive(ctx context.Context, viewer *model.SessionUser, userID string, active bool, actor model.AuditActor) (model.Profile, error) {
	if viewer == nil {
		return model.Profile{}, model.ErrUnauthorized
	}
	if viewer.ID == userID {
		return model.Profile{}, apierror.BadRequest("You cannot change your own activation", "userId")
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}
	if !policy.IsStaff(target.Role) || target.ClinicID == nil {
		return model.Profile{}, model.ErrForbidden
	}
	if target.Role == model.RoleClinicAdmin && viewer.Role != model.RoleSuperAdmin {
		return model.Profile{}, model.ErrForbidden
	}
	if !policy.CanAccessClinicData(viewer, *target.ClinicID) {
		return model.Profile{}, model.ErrForbidden
	}

	if err := s.users.SetActive(ctx, target.ID, active); err != nil {
		return model.Profile{}, err
	}
	target.IsActive = active

	s.audit.Record(ctx, model.AuditStaffActivation, actor, model.AuditStatusSuccess, target.ID,
		map[string]bool{"is_active": active}, "")

	return target.Profile(), nil
}
