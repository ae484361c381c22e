package session

import (
	"context"
	"errors"
	"log/slog"

	"clinic-portal/internal/model"
)

type userFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type verifier interface {
	Verify(token string) (string, bool)
}

// Resolver turns a cookie value into the current, active user. Lookups are
// never cached, so deactivation takes effect on the next request.
type Resolver struct {
	codec verifier
	users userFinder
}

func NewResolver(codec verifier, users userFinder) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve returns nil for an absent, invalid or expired token, an unknown or
// inactive user, and any store failure.
func (r *Resolver) Resolve(ctx context.Context, token string) *model.SessionUser {
	if token == "" {
		return nil
	}

	userID, ok := r.codec.Verify(token)
	if !ok {
		return nil
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			slog.WarnContext(ctx, "session resolution failed closed", "user_id", userID, "error", err)
		}
		return nil
	}
	if !user.IsActive {
		return nil
	}

	return user.SessionView()
}
