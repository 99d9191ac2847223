package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) AppendEntry(ctx context.Context, e domain.AuditEntry) error {
	payload := e.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO audit_entries (id, actor_id, action, entity_kind, entity_id, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Action, e.EntityKind, e.EntityID, string(raw), formatTime(createdAt))
	return mapConstraint(err)
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor_id, action, entity_kind, entity_id, payload, created_at
		 FROM audit_entries ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e         domain.AuditEntry
			raw       string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityKind, &e.EntityID, &raw, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &e.Payload); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
