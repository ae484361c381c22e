package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinic-portal/internal/model"
	"clinic-portal/internal/policy"
	"clinic-portal/pkg/apierror"
)

type AuthService struct {
	users  userStore
	tokens tokenIssuer
	audit  *AuditService
	now    func() time.Time
}

func NewAuthService(users userStore, tokens tokenIssuer, audit *AuditService) *AuthService {
	return &AuthService{users: users, tokens: tokens, audit: audit, now: time.Now}
}

// Login answers every credential mismatch with the same error so callers
// cannot tell an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email string, password string, actor model.AuditActor) (model.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.LoginResult{}, apierror.BadRequest("Email and password are required", "")
	}
	actor.Email = email

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.audit.Record(ctx, model.AuditLogin, actor, model.AuditStatusFailure, "", nil, "unknown email")
			return model.LoginResult{}, model.ErrInvalidCredentials
		}
		return model.LoginResult{}, err
	}

	actor.UserID = user.ID
	actor.Role = string(user.Role)

	if !user.IsActive || !passwordMatches(user.PasswordHash, password) {
		s.audit.Record(ctx, model.AuditLogin, actor, model.AuditStatusFailure, user.ID, nil, "credential mismatch")
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.LoginResult{}, err
	}

	s.audit.Record(ctx, model.AuditLogin, actor, model.AuditStatusSuccess, user.ID, nil, "")

	return model.LoginResult{
		User:         user.SessionView(),
		RedirectPath: PostLoginPath(user.SessionView()),
		Token:        token,
	}, nil
}

// PostLoginPath sends accounts with a forced password change to the change
// page and everybody else to their role's landing route.
func PostLoginPath(user *model.SessionUser) string {
	if user.MustChangePassword {
		return policy.ChangePasswordPath
	}
	return policy.DefaultLandingRoute(user.Role)
}

// Register creates a patient account. Public registration never creates
// staff, so any other requested role is rejected.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, actor model.AuditActor) (model.Profile, error) {
	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role != "" && role != model.RolePatient {
		return model.Profile{}, apierror.BadRequest("Public registration is limited to patients", "role")
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
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        optional(req.Phone),
		Role:         model.RolePatient,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return model.Profile{}, err
	}

	actor.UserID = user.ID
	actor.Email = user.Email
	actor.Role = string(user.Role)
	s.audit.Record(ctx, model.AuditRegister, actor, model.AuditStatusSuccess, user.ID, nil, "")
	slog.InfoContext(ctx, "patient registered", "user_id", user.ID)

	return user.Profile(), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, viewer *model.SessionUser, current string, next string, actor model.AuditActor) error {
	if viewer == nil {
		return model.ErrUnauthorized
	}
	if current == "" || next == "" {
		return apierror.BadRequest("Current and new password are required", "")
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	if current == next {
		return apierror.BadRequest("New password must differ from the current password", "newPassword")
	}

	user, err := s.users.FindByID(ctx, viewer.ID)
	if err != nil {
		return err
	}
	if !passwordMatches(user.PasswordHash, current) {
		s.audit.Record(ctx, model.AuditPasswordChanged, actor, model.AuditStatusFailure, user.ID, nil, "current password mismatch")
		return apierror.New("BAD_REQUEST", "Current password is incorrect", "currentPassword", http.StatusBadRequest)
	}

	hash, err := hashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.audit.Record(ctx, model.AuditPasswordChanged, actor, model.AuditStatusSuccess, user.ID, nil, "")
	return nil
}

func (s *AuthService) RecordLogout(ctx context.Context, actor model.AuditActor) {
	s.audit.Record(ctx, model.AuditLogout, actor, model.AuditStatusSuccess, actor.UserID, nil, "")
}
