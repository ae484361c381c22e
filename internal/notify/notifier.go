// Package notify delivers password reset links to whatever sends the email.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"clinic-portal/internal/model"
)

// LogNotifier writes the reset link to the log. It is the fallback when no
// outbox or webhook is configured and should only be used in development.
type LogNotifier struct{}

func (LogNotifier) DeliverReset(ctx context.Context, d model.ResetDelivery) error {
	slog.InfoContext(ctx, "password reset link issued",
		"user_id", d.UserID,
		"reset_url", d.ResetURL,
		"expires_at", d.ExpiresAt,
	)
	return nil
}

type deliverer interface {
	DeliverReset(ctx context.Context, d model.ResetDelivery) error
}

// Fanout hands the delivery to every target and joins their failures.
type Fanout []deliverer

func (f Fanout) DeliverReset(ctx context.Context, d model.ResetDelivery) error {
	var errs []error
	for _, target := range f {
		if err := target.DeliverReset(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
