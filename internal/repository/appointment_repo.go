package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-portal/internal/model"
)

const appointmentColumns = `id, patient_id, doctor_id, clinic_id, appointment_date, appointment_time,
	notes, status, created_at`

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) SlotTaken(ctx context.Context, doctorID string, date string, at string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM appointments
		 WHERE doctor_id = $1 AND appointment_date = $2 AND appointment_time = $3 AND status = 'scheduled')`,
		doctorID, date, at).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check appointment slot: %w", err)
	}
	return taken, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, a model.Appointment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments (`+appointmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.PatientID, a.DoctorID, a.ClinicID, a.Date, a.Time, a.Notes, a.Status, a.CreatedAt)
	if isUniqueViolation(err) {
		return model.ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	return r.list(ctx, `WHERE patient_id = $1`, patientID)
}

func (r *AppointmentRepository) ListByClinic(ctx context.Context, clinicID string) ([]model.Appointment, error) {
	return r.list(ctx, `WHERE clinic_id = $1`, clinicID)
}

func (r *AppointmentRepository) list(ctx context.Context, where string, arg string) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments `+where+`
		 ORDER BY appointment_date, appointment_time`, arg)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	items := make([]model.Appointment, 0)
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ClinicID, &a.Date, &a.Time,
			&a.Notes, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
