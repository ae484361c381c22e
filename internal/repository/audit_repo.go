package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-portal/internal/model"
)

const auditColumns = `action, occurred_at, actor_user_id, actor_email, actor_role, actor_ip,
	status, resource, detail, error_text`

// AuditRepository stores the append-only trail of auth and administration
// events. Rows are never updated.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Log(ctx context.Context, entry model.AuditEntry) error {
	detail, err := encodeDetail(entry.Detail)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_entries (`+auditColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.Action, entry.OccurredAt,
		entry.Actor.UserID, entry.Actor.Email, entry.Actor.Role, entry.Actor.IP,
		entry.Status, entry.Resource, detail, entry.Error)
	if err != nil {
		return fmt.Errorf("log audit entry %s: %w", entry.Action, err)
	}
	return nil
}

// conditions collects AND-ed predicates with positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	var filter conditions
	filter.add("lower(action) = lower($%d)", query.Action)
	filter.add("actor_user_id = $%d", query.ActorID)
	filter.add("lower(status) = lower($%d)", query.Status)
	filter.add("resource = $%d", query.Resource)
	filter.add("occurred_at >= $%d::timestamptz", query.From)
	filter.add("occurred_at <= $%d::timestamptz", query.To)

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_entries `+filter.where(), filter.args...).Scan(&total)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("count audit entries: %w", err)
	}

	meta := model.Meta{Page: query.Page, Limit: query.Limit, Total: total}
	if query.Limit > 0 {
		meta.TotalPages = (total + query.Limit - 1) / query.Limit
	}

	n := len(filter.args)
	args := append(filter.args, query.Limit, (query.Page-1)*query.Limit)
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT `+auditColumns+` FROM audit_entries %s
		 ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d`, filter.where(), n+1, n+2),
		args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query audit entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, scanAuditEntry)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("scan audit entries: %w", err)
	}
	return entries, meta, nil
}

func scanAuditEntry(row pgx.CollectableRow) (model.AuditEntry, error) {
	var (
		e          model.AuditEntry
		occurredAt time.Time
		detail     []byte
	)
	if err := row.Scan(&e.Action, &occurredAt,
		&e.Actor.UserID, &e.Actor.Email, &e.Actor.Role, &e.Actor.IP,
		&e.Status, &e.Resource, &detail, &e.Error); err != nil {
		return model.AuditEntry{}, err
	}

	e.OccurredAt = occurredAt.UTC().Format(time.RFC3339Nano)
	if len(detail) > 0 {
		var decoded any
		if json.Unmarshal(detail, &decoded) == nil {
			e.Detail = decoded
		}
	}
	return e, nil
}

func encodeDetail(detail any) ([]byte, error) {
	if detail == nil {
		return nil, nil
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("marshal audit detail: %w", err)
	}
	return raw, nil
}
