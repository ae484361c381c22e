package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-portal/internal/model"
)

type ResetTokenRepository struct {
	pool *pgxpool.Pool
}

func NewResetTokenRepository(pool *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{pool: pool}
}

func (r *ResetTokenRepository) Store(ctx context.Context, t model.PasswordResetToken) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO password_reset_tokens (token, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		t.Token, t.UserID, t.CreatedAt, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	return nil
}

// Redeem spends a reset token and installs passwordHash in one transaction.
// The token row is deleted with DELETE ... RETURNING, so two concurrent
// redemptions cannot both see it. An expired token is deleted and
// ErrResetTokenExpired returned without touching the password. Any failure
// after the delete rolls back, leaving a valid token usable.
func (r *ResetTokenRepository) Redeem(ctx context.Context, token string, now time.Time, passwordHash string) (model.PasswordResetToken, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.PasswordResetToken{}, fmt.Errorf("begin reset redemption: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var t model.PasswordResetToken
	err = tx.QueryRow(ctx,
		`DELETE FROM password_reset_tokens WHERE token = $1
		 RETURNING token, user_id, created_at, expires_at`, token).
		Scan(&t.Token, &t.UserID, &t.CreatedAt, &t.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PasswordResetToken{}, model.ErrResetTokenInvalid
	}
	if err != nil {
		return model.PasswordResetToken{}, fmt.Errorf("consume reset token: %w", err)
	}

	if now.After(t.ExpiresAt) {
		if err := tx.Commit(ctx); err != nil {
			return t, fmt.Errorf("drop expired reset token: %w", err)
		}
		return t, model.ErrResetTokenExpired
	}

	tag, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $2, must_change_password = FALSE, updated_at = $3
		 WHERE id = $1`, t.UserID, passwordHash, now.UTC())
	if err != nil {
		return t, fmt.Errorf("update password from reset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return t, model.ErrUserNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, t.UserID); err != nil {
		return t, fmt.Errorf("drop sibling reset tokens: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return t, fmt.Errorf("commit reset redemption: %w", err)
	}
	return t, nil
}

func (r *ResetTokenRepository) CleanExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("clean expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
