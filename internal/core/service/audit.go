package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/pkg/idx"
)

// AuditService appends immutable audit entries. A mutation and its entry are
// written inside one transaction: if the entry cannot be persisted the
// business operation fails with it, never silently.
type AuditService struct {
	Store store.Store
}

// Record appends a standalone audit entry outside any caller transaction.
func (s *AuditService) Record(ctx context.Context, actorID, action, entityKind, entityID string, payload map[string]any) error {
	return s.append(ctx, s.Store.Audit(), actorID, action, entityKind, entityID, payload)
}

// RecordTx appends an audit entry within the caller's transaction so the
// entry commits and rolls back together with the mutation it describes.
func (s *AuditService) RecordTx(ctx context.Context, tx store.Tx, actorID, action, entityKind, entityID string, payload map[string]any) error {
	return s.append(ctx, tx.Audit(), actorID, action, entityKind, entityID, payload)
}

func (s *AuditService) append(ctx context.Context, sink store.Audit, actorID, action, entityKind, entityID string, payload map[string]any) error {
	if actorID == "" || action == "" {
		return fmt.Errorf("%w: audit entry needs actor and action", domain.ErrValidation)
	}

	return sink.AppendEntry(ctx, domain.AuditEntry{
		ID:         idx.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	})
}

// ListRecent returns the newest entries for the admin reporting surface.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.Store.Audit().ListRecent(ctx, limit)
}
