package model

import "time"

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleClinicAdmin Role = "clinic_admin"
	RoleDoctor      Role = "doctor"
	RoleSecretary   Role = "secretary"
	RolePurchasing  Role = "purchasing"
	RolePatient     Role = "patient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleClinicAdmin, RoleDoctor, RoleSecretary, RolePurchasing, RolePatient:
		return true
	}
	return false
}

// User is a row of the credential store.
type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Phone              *string   `json:"phone,omitempty"`
	Role               Role      `json:"role"`
	ClinicID           *string   `json:"clinic_id,omitempty"`
	ClinicName         *string   `json:"clinic_name,omitempty"`
	IsActive           bool      `json:"is_active"`
	MustChangePassword bool      `json:"must_change_password"`
	Department         *string   `json:"department,omitempty"`
	Specialization     *string   `json:"specialization,omitempty"`
	LicenseNumber      *string   `json:"license_number,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SessionUser is what a resolved session exposes to the rest of the request.
type SessionUser struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Role               Role    `json:"role"`
	ClinicID           *string `json:"clinic_id,omitempty"`
	ClinicName         *string `json:"clinic_name,omitempty"`
	MustChangePassword bool    `json:"must_change_password"`
}

func (u User) SessionView() *SessionUser {
	return &SessionUser{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               u.Role,
		ClinicID:           u.ClinicID,
		ClinicName:         u.ClinicName,
		MustChangePassword: u.MustChangePassword,
	}
}

// HasClinic reports whether the user carries a non-empty clinic assignment.
func (u *SessionUser) HasClinic() bool {
	return u != nil && u.ClinicID != nil && *u.ClinicID != ""
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	ClinicID  *string   `json:"clinic_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		ClinicID:  u.ClinicID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// DoctorSummary is the public directory entry used when booking.
type DoctorSummary struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Specialization *string `json:"specialization,omitempty"`
	ClinicID       *string `json:"clinic_id,omitempty"`
	ClinicName     *string `json:"clinic_name,omitempty"`
}

func (u User) DoctorSummary() DoctorSummary {
	return DoctorSummary{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Specialization: u.Specialization,
		ClinicID:       u.ClinicID,
		ClinicName:     u.ClinicName,
	}
}

type DoctorList struct {
	Doctors []DoctorSummary `json:"doctors"`
}

type StaffList struct {
	Staff []Profile `json:"staff"`
}

type LoginResult struct {
	User         *SessionUser `json:"user"`
	RedirectPath string       `json:"redirect_path"`
	Token        string       `json:"-"`
}
