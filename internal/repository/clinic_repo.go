package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-portal/internal/model"
)

const clinicColumns = `id, name, name_ar, address, city, phone, email, license_number, is_active, created_at`

type ClinicRepository struct {
	pool *pgxpool.Pool
}

func NewClinicRepository(pool *pgxpool.Pool) *ClinicRepository {
	return &ClinicRepository{pool: pool}
}

func scanClinic(row pgx.Row) (model.Clinic, error) {
	var c model.Clinic
	err := row.Scan(&c.ID, &c.Name, &c.NameAr, &c.Address, &c.City, &c.Phone, &c.Email,
		&c.LicenseNumber, &c.IsActive, &c.CreatedAt)
	return c, err
}

func (r *ClinicRepository) FindByID(ctx context.Context, id string) (model.Clinic, error) {
	c, err := scanClinic(r.pool.QueryRow(ctx,
		`SELECT `+clinicColumns+` FROM clinics WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Clinic{}, model.ErrClinicNotFound
	}
	if err != nil {
		return model.Clinic{}, fmt.Errorf("find clinic: %w", err)
	}
	return c, nil
}

func (r *ClinicRepository) Create(ctx context.Context, c model.Clinic) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO clinics (`+clinicColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.NameAr, c.Address, c.City, c.Phone, c.Email, c.LicenseNumber, c.IsActive, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create clinic: %w", err)
	}
	return nil
}

func (r *ClinicRepository) List(ctx context.Context) ([]model.Clinic, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clinicColumns+` FROM clinics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()

	clinics := make([]model.Clinic, 0)
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		clinics = append(clinics, c)
	}
	return clinics, rows.Err()
}
