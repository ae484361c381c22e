package model

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	DoctorID  string            `json:"doctor_id"`
	ClinicID  string            `json:"clinic_id"`
	Date      string            `json:"appointment_date"`
	Time      string            `json:"appointment_time"`
	Notes     *string           `json:"notes,omitempty"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

type AppointmentList struct {
	Appointments []Appointment `json:"appointments"`
}
