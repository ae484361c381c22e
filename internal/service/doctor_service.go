package service

import (
	"context"
	"strings"

	"clinic-portal/internal/model"
)

// DoctorService lists bookable doctors for any signed-in user.
type DoctorService struct {
	doctors doctorDirectory
}

func NewDoctorService(doctors doctorDirectory) *DoctorService {
	return &DoctorService{doctors: doctors}
}

func (s *DoctorService) List(ctx context.Context, viewer *model.SessionUser, clinicID string) ([]model.DoctorSummary, error) {
	if viewer == nil {
		return nil, model.ErrUnauthorized
	}

	users, err := s.doctors.ListActiveDoctors(ctx, strings.TrimSpace(clinicID))
	if err != nil {
		return nil, err
	}

	out := make([]model.DoctorSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.DoctorSummary())
	}
	return out, nil
}
