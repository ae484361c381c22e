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

const (
	appointmentDateLayout = "2006-01-02"
	appointmentTimeLayout = "15:04"
)

type AppointmentService struct {
	appointments appointmentStore
	doctors      doctorLookup
	access       *AccessService
	audit        *AuditService
	now          func() time.Time
}

func NewAppointmentService(appointments appointmentStore, doctors doctorLookup, access *AccessService, audit *AuditService) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		doctors:      doctors,
		access:       access,
		audit:        audit,
		now:          time.Now,
	}
}

// Book reserves a slot with an active doctor for the calling patient. The
// clinic comes from the doctor. The free-slot check and the insert are not
// atomic; a partial unique index on scheduled slots catches the rare race.
func (s *AppointmentService) Book(ctx context.Context, patient *model.SessionUser, req model.BookAppointmentRequest, actor model.AuditActor) (model.Appointment, error) {
	if patient == nil {
		return model.Appointment{}, model.ErrUnauthorized
	}
	if patient.Role != model.RolePatient {
		return model.Appointment{}, model.ErrForbidden
	}

	doctorID := strings.TrimSpace(req.DoctorID)
	date := strings.TrimSpace(req.Date)
	at := strings.TrimSpace(req.Time)
	if doctorID == "" || date == "" || at == "" {
		return model.Appointment{}, apierror.BadRequest("Doctor, date and time are required", "")
	}
	if _, err := time.Parse(appointmentDateLayout, date); err != nil {
		return model.Appointment{}, apierror.BadRequest("Date must be YYYY-MM-DD", "date")
	}
	if _, err := time.Parse(appointmentTimeLayout, at); err != nil {
		return model.Appointment{}, apierror.BadRequest("Time must be HH:MM", "time")
	}

	doctor, err := s.doctors.FindActiveDoctor(ctx, doctorID)
	if err != nil {
		return model.Appointment{}, err
	}
	if doctor.ClinicID == nil || *doctor.ClinicID == "" {
		return model.Appointment{}, model.ErrNoClinicAssigned
	}

	taken, err := s.appointments.SlotTaken(ctx, doctor.ID, date, at)
	if err != nil {
		return model.Appointment{}, err
	}
	if taken {
		return model.Appointment{}, model.ErrSlotTaken
	}

	appt := model.Appointment{
		ID:        uuid.NewString(),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		ClinicID:  *doctor.ClinicID,
		Date:      date,
		Time:      at,
		Notes:     optional(req.Notes),
		Status:    model.AppointmentScheduled,
		CreatedAt: s.now().UTC(),
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return model.Appointment{}, err
	}

	s.audit.Record(ctx, model.AuditAppointmentBook, actor, model.AuditStatusSuccess, appt.ID,
		map[string]string{"doctor_id": doctor.ID, "date": date, "time": at}, "")
	return appt, nil
}

func (s *AppointmentService) ListForPatient(ctx context.Context, viewer *model.SessionUser, patientID string) ([]model.Appointment, error) {
	if !s.access.CanAccessPatientData(ctx, viewer, patientID) {
		return nil, model.ErrForbidden
	}
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *AppointmentService) ListForClinic(ctx context.Context, viewer *model.SessionUser, clinicID string) ([]model.Appointment, error) {
	if viewer == nil {
		return nil, model.ErrUnauthorized
	}
	if viewer.Role != model.RoleSuperAdmin && !policy.IsStaff(viewer.Role) {
		return nil, model.ErrForbidden
	}
	if !s.access.CanAccessClinicData(viewer, clinicID) {
		return nil, model.ErrForbidden
	}
	return s.appointments.ListByClinic(ctx, clinicID)
}
