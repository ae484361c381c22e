package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-portal/internal/model"
)

type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

// PermissionsForRole flattens role_permissions rows into "resource:action".
func (r *PermissionRepository) PermissionsForRole(ctx context.Context, role model.Role) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT resource, action FROM role_permissions WHERE role = $1`, role)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	defer rows.Close()

	perms := make([]string, 0)
	for rows.Next() {
		var resource, action string
		if err := rows.Scan(&resource, &action); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		perms = append(perms, resource+":"+action)
	}
	return perms, rows.Err()
}
