package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinic-portal/internal/model"
	"clinic-portal/internal/policy"
	"clinic-portal/pkg/apierror"
)

type ClinicService struct {
	clinics clinicStore
	audit   *AuditService
	now     func() time.Time
}

func NewClinicService(clinics clinicStore, audit *AuditService) *ClinicService {
	return &ClinicService{clinics: clinics, audit: audit, now: time.Now}
}

func (s *ClinicService) Create(ctx context.Context, viewer *model.SessionUser, req model.CreateClinicRequest, actor model.AuditActor) (model.Clinic, error) {
	if viewer == nil || viewer.Role != model.RoleSuperAdmin {
		return model.Clinic{}, model.ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	city := strings.TrimSpace(req.City)
	if name == "" || address == "" || city == "" {
		return model.Clinic{}, apierror.BadRequest("Name, address and city are required", "")
	}

	var email *string
	if e := normalizeEmail(req.Email); e != "" {
		if !validEmail(e) {
			return model.Clinic{}, apierror.BadRequest("Invalid email format", "email")
		}
		email = &e
	}

	clinic := model.Clinic{
		ID:            uuid.NewString(),
		Name:          name,
		NameAr:        optional(req.NameAr),
		Address:       address,
		City:          city,
		Phone:         optional(req.Phone),
		Email:         email,
		LicenseNumber: optional(req.LicenseNumber),
		IsActive:      true,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.clinics.Create(ctx, clinic); err != nil {
		return model.Clinic{}, err
	}

	s.audit.Record(ctx, model.AuditClinicCreated, actor, model.AuditStatusSuccess, clinic.ID, map[string]string{"name": clinic.Name}, "")
	return clinic, nil
}

func (s *ClinicService) List(ctx context.Context, viewer *model.SessionUser) ([]model.Clinic, error) {
	if viewer == nil || viewer.Role != model.RoleSuperAdmin {
		return nil, model.ErrForbidden
	}
	return s.clinics.List(ctx)
}

func (s *ClinicService) Get(ctx context.Context, viewer *model.SessionUser, clinicID string) (model.Clinic, error) {
	if !policy.CanAccessClinicData(viewer, clinicID) {
		return model.Clinic{}, model.ErrForbidden
	}
	return s.clinics.FindByID(ctx, clinicID)
}
