package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

//go:embed migrations/002_appointment_slots.up.sql
var appointmentSlotsSQL string

var requiredTables = []string{
	"clinics",
	"users",
	"password_reset_tokens",
	"role_permissions",
	"appointments",
	"audit_entries",
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying initial migration")
		if _, err := db.Pool.Exec(ctx, initialMigrationSQL); err != nil {
			return fmt.Errorf("apply initial migration: %w", err)
		}

		exists, err = db.hasAllRequiredTables(ctx)
		if err != nil {
			return fmt.Errorf("re-check tables after migration: %w", err)
		}

		if !exists {
			return fmt.Errorf("schema initialization incomplete: required tables are still missing")
		}
	}

	if err := db.applyAppointmentSlots(ctx); err != nil {
		return fmt.Errorf("apply appointment slot migration: %w", err)
	}

	slog.Info("database schema ensured")
	return nil
}

// applyAppointmentSlots runs migration 002. Existing double bookings make the
// index creation fail, which is reported rather than silently skipped.
func (db *DB) applyAppointmentSlots(ctx context.Context) error {
	var hasIndex bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = 'public'
			  AND indexname = 'appointments_scheduled_slot_idx'
		)
	`).Scan(&hasIndex)
	if err != nil {
		return fmt.Errorf("check appointment slot index: %w", err)
	}

	if !hasIndex {
		slog.Info("applying appointment slot migration (002)")
		if _, err := db.Pool.Exec(ctx, appointmentSlotsSQL); err != nil {
			return fmt.Errorf("exec appointment slot SQL: %w", err)
		}
	}

	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
