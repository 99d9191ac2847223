package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
)

// HierarchyService resolves the transitive reporting downline of a manager
// within a tenant, and from it the set of identities a caller may see or
// mutate. The visibility rule is applied identically to reads and writes.
type HierarchyService struct {
	Store store.Store
	Audit *AuditService
}

// Downline returns every identity transitively reporting to managerID
// within tenantID, manager-exclusive. A manager with no reports yields an
// empty set, not an error.
//
// Breadth-first over the reporting edges, one level at a time. The visited
// set both deduplicates and breaks cycles: the org chart is supposed to be
// acyclic, but a bad edge must not hang the traversal, so no id is ever
// enqueued twice and each edge is fetched at most once.
func (s *HierarchyService) Downline(ctx context.Context, managerID, tenantID string) ([]string, error) {
	if managerID == "" || tenantID == "" {
		return nil, fmt.Errorf("%w: manager and tenant ids are required", domain.ErrValidation)
	}

	visited := map[string]struct{}{managerID: {}}
	result := []string{}
	frontier := []string{managerID}

	for len(frontier) > 0 {
		next := frontier[:0:0]
		for _, id := range frontier {
			subs, err := s.Store.Reporting().DirectSubordinates(ctx, id, tenantID)
			if err != nil {
				return nil, err
			}
			for _, sub := range subs {
				if _, seen := visited[sub]; seen {
					continue
				}
				visited[sub] = struct{}{}
				result = append(result, sub)
				next = append(next, sub)
			}
		}
		frontier = next
	}

	return result, nil
}

// VisibleIdentityIDs computes the record-ownership filter for the caller:
//
//   - admin-class roles see the whole tenant: nil, meaning unscoped.
//   - manager-class roles see their downline plus themselves.
//   - everyone else sees exactly themselves.
func (s *HierarchyService) VisibleIdentityIDs(ctx context.Context, claims domain.Claims) ([]string, error) {
	if claims.Role.IsAdminClass() {
		return nil, nil
	}

	if claims.Role.IsManagerClass() {
		downline, err := s.Downline(ctx, claims.IdentityID, claims.TenantID)
		if err != nil {
			return nil, err
		}
		return append([]string{claims.IdentityID}, downline...), nil
	}

	return []string{claims.IdentityID}, nil
}

// AssignManager sets the reporting line for a subordinate within a tenant,
// or clears it when managerID is empty. Both ends must be members of the
// tenant, and an identity cannot report to itself.
func (s *HierarchyService) AssignManager(ctx context.Context, actor domain.Claims, subordinateID, managerID, tenantID string) error {
	if subordinateID == "" || tenantID == "" {
		return fmt.Errorf("%w: subordinate and tenant ids are required", domain.ErrValidation)
	}
	if managerID == "" {
		return s.removeManager(ctx, actor, subordinateID, tenantID)
	}
	if subordinateID == managerID {
		return fmt.Errorf("%w: identity cannot report to itself", domain.ErrValidation)
	}

	for _, id := range []string{subordinateID, managerID} {
		member, err := s.Store.Tenants().IsMember(ctx, id, tenantID)
		if err != nil {
			return err
		}
		if !member {
			return fmt.Errorf("%w: identity %s is not a member of tenant", domain.ErrNotFound, id)
		}
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Reporting().SetManager(ctx, subordinateID, managerID, tenantID); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "reporting.manager_assigned", "identity", subordinateID, map[string]any{
			"manager_id": managerID,
			"tenant_id":  tenantID,
		})
	})
}

func (s *HierarchyService) removeManager(ctx context.Context, actor domain.Claims, subordinateID, tenantID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Reporting().RemoveManager(ctx, subordinateID, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			// Clearing a line that does not exist is a no-op.
			return nil
		}
		if err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "reporting.manager_removed", "identity", subordinateID, map[string]any{
			"tenant_id": tenantID,
		})
	})
}
