package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"clinic-portal/internal/model"
	"clinic-portal/pkg/apierror"
)

// ForgotPasswordMessage is returned for every forgot-password request so the
// response never reveals whether an account exists.
const ForgotPasswordMessage = "If an account with that email exists, we've sent a password reset link."

const DefaultResetTokenTTL = time.Hour

type ResetService struct {
	users    userStore
	tokens   resetTokenStore
	notifier ResetNotifier
	audit    *AuditService
	baseURL  string
	ttl      time.Duration
	now      func() time.Time
	newToken func() (string, error)
}

func NewResetService(users userStore, tokens resetTokenStore, notifier ResetNotifier, audit *AuditService, baseURL string, ttl time.Duration) *ResetService {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		audit:    audit,
		baseURL:  strings.TrimRight(baseURL, "/"),
		ttl:      ttl,
		now:      time.Now,
		newToken: randomToken,
	}
}

// randomToken returns 256 bits from crypto/rand, hex encoded.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RequestReset issues and delivers a reset link when the email belongs to an
// active account. The returned message is the same in every case; only
// malformed input is reported back.
func (s *ResetService) RequestReset(ctx context.Context, email string, actor model.AuditActor) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", apierror.BadRequest("Email is required", "email")
	}
	actor.Email = email

	if err := s.issue(ctx, email, actor); err != nil {
		slog.ErrorContext(ctx, "password reset request failed", "error", err)
	}
	return ForgotPasswordMessage, nil
}

func (s *ResetService) issue(ctx context.Context, email string, actor model.AuditActor) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		s.audit.Record(ctx, model.AuditResetRequested, actor, model.AuditStatusFailure, "", nil, "unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		s.audit.Record(ctx, model.AuditResetRequested, actor, model.AuditStatusFailure, user.ID, nil, "inactive account")
		return nil
	}
	if s.baseURL == "" {
		return errors.New("APP_BASE_URL is not configured")
	}

	token, err := s.newToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	now := s.now().UTC()
	record := model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.tokens.Store(ctx, record); err != nil {
		return err
	}

	actor.UserID = user.ID
	actor.Role = string(user.Role)
	s.audit.Record(ctx, model.AuditResetRequested, actor, model.AuditStatusSuccess, user.ID, nil, "")

	if s.notifier == nil {
		return nil
	}
	delivery := model.ResetDelivery{
		UserID:    user.ID,
		Email:     user.Email,
		ResetURL:  s.resetURL(token),
		ExpiresAt: record.ExpiresAt,
	}
	if err := s.notifier.DeliverReset(ctx, delivery); err != nil {
		return fmt.Errorf("deliver reset link: %w", err)
	}
	return nil
}

func (s *ResetService) resetURL(token string) string {
	return s.baseURL + "/reset-password?token=" + url.QueryEscape(token)
}

// ConsumeReset spends a reset token. The new password is hashed first; the
// token is then redeemed together with the password update, so a store
// failure leaves the link usable and a used or expired token is never valid
// again.
func (s *ResetService) ConsumeReset(ctx context.Context, token string, newPassword string, actor model.AuditActor) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return apierror.BadRequest("Token and password are required", "")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	record, err := s.tokens.Redeem(ctx, token, s.now(), hash)
	actor.UserID = record.UserID
	switch {
	case errors.Is(err, model.ErrResetTokenInvalid):
		s.audit.Record(ctx, model.AuditResetConsumed, actor, model.AuditStatusFailure, "", nil, "unknown token")
		return err
	case errors.Is(err, model.ErrResetTokenExpired):
		s.audit.Record(ctx, model.AuditResetConsumed, actor, model.AuditStatusFailure, record.UserID, nil, "expired token")
		return err
	case err != nil:
		slog.ErrorContext(ctx, "reset redemption failed", "user_id", record.UserID, "error", err)
		return err
	}

	s.audit.Record(ctx, model.AuditResetConsumed, actor, model.AuditStatusSuccess, record.UserID, nil, "")
	return nil
}

// SweepExpired removes reset tokens whose window has passed.
func (s *ResetService) SweepExpired(ctx context.Context) {
	removed, err := s.tokens.CleanExpired(ctx, s.now().UTC())
	if err != nil {
		slog.ErrorContext(ctx, "reset token sweep failed", "error", err)
		return
	}
	if removed > 0 {
		slog.InfoContext(ctx, "expired reset tokens removed", "count", removed)
	}
}

// StartSweeper runs SweepExpired on a regular interval until ctx is cancelled.
func (s *ResetService) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.SweepExpired(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepExpired(ctx)
		}
	}
}
