package model

import "time"

type Clinic struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	NameAr        *string   `json:"name_ar,omitempty"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	LicenseNumber *string   `json:"license_number,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type ClinicList struct {
	Clinics []Clinic `json:"clinics"`
}
