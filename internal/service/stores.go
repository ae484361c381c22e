package service

import (
	"context"
	"time"

	"clinic-portal/internal/model"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}

type staffStore interface {
	userStore
	ListByClinic(ctx context.Context, clinicID string) ([]model.User, error)
	SetActive(ctx context.Context, userID string, active bool) error
}

type profileStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	UpdateProfile(ctx context.Context, u model.User) error
}

type patientLookup interface {
	PatientExists(ctx context.Context, id string) (bool, error)
}

type doctorLookup interface {
	FindActiveDoctor(ctx context.Context, id string) (model.User, error)
}

type doctorDirectory interface {
	ListActiveDoctors(ctx context.Context, clinicID string) ([]model.User, error)
}

type permissionLoader interface {
	PermissionsForRole(ctx context.Context, role model.Role) ([]string, error)
}

type resetTokenStore interface {
	Store(ctx context.Context, t model.PasswordResetToken) error
	// Redeem deletes the token and, when it has not expired, sets the
	// owner's password hash and drops their other tokens atomically.
	Redeem(ctx context.Context, token string, now time.Time, passwordHash string) (model.PasswordResetToken, error)
	CleanExpired(ctx context.Context, now time.Time) (int64, error)
}

type clinicStore interface {
	FindByID(ctx context.Context, id string) (model.Clinic, error)
	Create(ctx context.Context, c model.Clinic) error
	List(ctx context.Context) ([]model.Clinic, error)
}

type appointmentStore interface {
	SlotTaken(ctx context.Context, doctorID string, date string, at string) (bool, error)
	Create(ctx context.Context, a model.Appointment) error
	ListByPatient(ctx context.Context, patientID string) ([]model.Appointment, error)
	ListByClinic(ctx context.Context, clinicID string) ([]model.Appointment, error)
}

type auditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

type tokenIssuer interface {
	Issue(userID string) (string, error)
}

// ResetNotifier delivers reset links out of band.
type ResetNotifier interface {
	DeliverReset(ctx context.Context, delivery model.ResetDelivery) error
}
