package service

import (
	"context"
	"strings"

	"clinic-portal/internal/model"
	"clinic-portal/pkg/apierror"
)

type PatientService struct {
	users  profileStore
	access *AccessService
	audit  *AuditService
}

func NewPatientService(users profileStore, access *AccessService, audit *AuditService) *PatientService {
	return &PatientService{users: users, access: access, audit: audit}
}

func (s *PatientService) GetProfile(ctx context.Context, viewer *model.SessionUser, patientID string) (model.Profile, error) {
	if !s.access.CanAccessPatientData(ctx, viewer, patientID) {
		return model.Profile{}, model.ErrForbidden
	}
	user, err := s.users.FindByID(ctx, patientID)
	if err != nil {
		return model.Profile{}, err
	}
	return user.Profile(), nil
}

// canWrite requires profile:update for a patient editing themselves and
// patients:update for staff on top of the read rule.
func (s *PatientService) canWrite(ctx context.Context, viewer *model.SessionUser, patientID string) bool {
	if !s.access.CanAccessPatientData(ctx, viewer, patientID) {
		return false
	}
	if viewer.Role == model.RolePatient {
		return s.access.HasPermission(ctx, viewer, "profile", "update")
	}
	return s.access.HasPermission(ctx, viewer, "patients", "update")
}

// UpdateProfile changes name, email and phone. Blank fields keep their
// current value; a blank phone clears it. Only the patient may change the
// login email.
func (s *PatientService) UpdateProfile(ctx context.Context, viewer *model.SessionUser, patientID string, req model.UpdateProfileRequest, actor model.AuditActor) (model.Profile, error) {
	if !s.canWrite(ctx, viewer, patientID) {
		return model.Profile{}, model.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, patientID)
	if err != nil {
		return model.Profile{}, err
	}

	if name := strings.TrimSpace(req.FirstName); name != "" {
		user.FirstName = name
	}
	if name := strings.TrimSpace(req.LastName); name != "" {
		user.LastName = name
	}
	user.Phone = optional(req.Phone)

	if email := normalizeEmail(req.Email); email != "" && email != user.Email {
		if viewer.ID != user.ID {
			return model.Profile{}, apierror.Forbidden("Only the patient can change their email")
		}
		if !validEmail(email) {
			return model.Profile{}, apierror.BadRequest("Invalid email format", "email")
		}
		taken, err := s.users.ExistsByEmail(ctx, email, user.ID)
		if err != nil {
			return model.Profile{}, err
		}
		if taken {
			return model.Profile{}, model.ErrEmailTaken
		}
		user.Email = email
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return model.Profile{}, err
	}

	s.audit.Record(ctx, model.AuditProfileUpdated, actor, model.AuditStatusSuccess, user.ID, nil, "")
	return user.Profile(), nil
}
