package sqlite

import (
	"context"
	"database/sql"
	"time"
)

type reportingRepo struct {
	db dbtx
}

func (r *reportingRepo) DirectSubordinates(ctx context.Context, managerID, tenantID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT subordinate_id FROM reporting_edges WHERE manager_id = ? AND tenant_id = ?
		 ORDER BY subordinate_id`,
		managerID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *reportingRepo) SetManager(ctx context.Context, subordinateID, managerID, tenantID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reporting_edges (subordinate_id, manager_id, tenant_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (subordinate_id, tenant_id) DO UPDATE SET manager_id = excluded.manager_id`,
		subordinateID, managerID, tenantID, formatTime(time.Now()))
	return err
}

func (r *reportingRepo) RemoveManager(ctx context.Context, subordinateID, tenantID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reporting_edges WHERE subordinate_id = ? AND tenant_id = ?`,
		subordinateID, tenantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
