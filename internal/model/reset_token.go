package model

import "time"

type PasswordResetToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ResetDelivery is handed to the out-of-band delivery channel.
type ResetDelivery struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ResetURL  string    `json:"reset_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
