package service

import (
	"context"
	"testing"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestDownline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &HierarchyService{Store: st, Audit: &AuditService{Store: st}}

	tenant := seedTenant(t, ctx, st, "Acme")

	// manager -> {lead1, lead2}, lead1 -> {rep1, rep2}, lead2 -> {rep3}
	manager := seedIdentity(t, ctx, st, "manager@example.com", domain.RoleManager, tenant.ID)
	lead1 := seedIdentity(t, ctx, st, "lead1@example.com", domain.RoleTeamLeader, tenant.ID)
	lead2 := seedIdentity(t, ctx, st, "lead2@example.com", domain.RoleTeamLeader, tenant.ID)
	rep1 := seedIdentity(t, ctx, st, "rep1@example.com", domain.RoleSalesExecutive, tenant.ID)
	rep2 := seedIdentity(t, ctx, st, "rep2@example.com", domain.RoleSalesExecutive, tenant.ID)
	rep3 := seedIdentity(t, ctx, st, "rep3@example.com", domain.RoleSalesExecutive, tenant.ID)

	seedEdge(t, ctx, st, lead1.ID, manager.ID, tenant.ID)
	seedEdge(t, ctx, st, lead2.ID, manager.ID, tenant.ID)
	seedEdge(t, ctx, st, rep1.ID, lead1.ID, tenant.ID)
	seedEdge(t, ctx, st, rep2.ID, lead1.ID, tenant.ID)
	seedEdge(t, ctx, st, rep3.ID, lead2.ID, tenant.ID)

	t.Run("resolves the transitive downline, manager excluded", func(t *testing.T) {
		ids, err := svc.Downline(ctx, manager.ID, tenant.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{lead1.ID, lead2.ID, rep1.ID, rep2.ID, rep3.ID}, ids)
	})

	t.Run("mid-level manager sees only their subtree", func(t *testing.T) {
		ids, err := svc.Downline(ctx, lead1.ID, tenant.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{rep1.ID, rep2.ID}, ids)
	})

	t.Run("no reports yields an empty set, not an error", func(t *testing.T) {
		ids, err := svc.Downline(ctx, rep1.ID, tenant.ID)
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("edges in another tenant are invisible", func(t *testing.T) {
		other := seedTenant(t, ctx, st, "Globex")
		ids, err := svc.Downline(ctx, manager.ID, other.ID)
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("missing ids are a validation failure", func(t *testing.T) {
		_, err := svc.Downline(ctx, "", tenant.ID)
		require.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Downline(ctx, manager.ID, "")
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestDownlineBreaksCycles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &HierarchyService{Store: st, Audit: &AuditService{Store: st}}

	tenant := seedTenant(t, ctx, st, "Acme")
	a := seedIdentity(t, ctx, st, "a@example.com", domain.RoleManager, tenant.ID)
	b := seedIdentity(t, ctx, st, "b@example.com", domain.RoleTeamLeader, tenant.ID)
	c := seedIdentity(t, ctx, st, "c@example.com", domain.RoleTeamLeader, tenant.ID)

	// a -> b -> c -> a, written directly to bypass the service's own guard.
	seedEdge(t, ctx, st, b.ID, a.ID, tenant.ID)
	seedEdge(t, ctx, st, c.ID, b.ID, tenant.ID)
	seedEdge(t, ctx, st, a.ID, c.ID, tenant.ID)

	ids, err := svc.Downline(ctx, a.ID, tenant.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{b.ID, c.ID}, ids, "the start node never re-enters its own downline")
}

func TestVisibleIdentityIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &HierarchyService{Store: st, Audit: &AuditService{Store: st}}

	tenant := seedTenant(t, ctx, st, "Acme")
	admin := seedIdentity(t, ctx, st, "admin@example.com", domain.RoleAdmin, tenant.ID)
	manager := seedIdentity(t, ctx, st, "manager@example.com", domain.RoleManager, tenant.ID)
	rep := seedIdentity(t, ctx, st, "rep@example.com", domain.RoleSalesExecutive, tenant.ID)
	seedEdge(t, ctx, st, rep.ID, manager.ID, tenant.ID)

	t.Run("admin-class is unscoped", func(t *testing.T) {
		ids, err := svc.VisibleIdentityIDs(ctx, claimsFor(admin, tenant.ID))
		require.NoError(t, err)
		require.Nil(t, ids)
	})

	t.Run("manager-class sees downline plus self", func(t *testing.T) {
		ids, err := svc.VisibleIdentityIDs(ctx, claimsFor(manager, tenant.ID))
		require.NoError(t, err)
		require.ElementsMatch(t, []string{manager.ID, rep.ID}, ids)
	})

	t.Run("everyone else sees only themselves", func(t *testing.T) {
		ids, err := svc.VisibleIdentityIDs(ctx, claimsFor(rep, tenant.ID))
		require.NoError(t, err)
		require.Equal(t, []string{rep.ID}, ids)
	})
}

func TestAssignManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &HierarchyService{Store: st, Audit: &AuditService{Store: st}}

	tenant := seedTenant(t, ctx, st, "Acme")
	admin := seedIdentity(t, ctx, st, "admin@example.com", domain.RoleAdmin, tenant.ID)
	manager := seedIdentity(t, ctx, st, "manager@example.com", domain.RoleManager, tenant.ID)
	rep := seedIdentity(t, ctx, st, "rep@example.com", domain.RoleSalesExecutive, tenant.ID)

	actor := claimsFor(admin, tenant.ID)

	t.Run("sets the edge and records an audit entry", func(t *testing.T) {
		require.NoError(t, svc.AssignManager(ctx, actor, rep.ID, manager.ID, tenant.ID))

		subs, err := st.Reporting().DirectSubordinates(ctx, manager.ID, tenant.ID)
		require.NoError(t, err)
		require.Equal(t, []string{rep.ID}, subs)

		entries, err := st.Audit().ListRecent(ctx, 10)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		require.Equal(t, "reporting.manager_assigned", entries[0].Action)
		require.Equal(t, rep.ID, entries[0].EntityID)
	})

	t.Run("reassignment replaces the previous edge", func(t *testing.T) {
		other := seedIdentity(t, ctx, st, "other@example.com", domain.RoleManager, tenant.ID)
		require.NoError(t, svc.AssignManager(ctx, actor, rep.ID, other.ID, tenant.ID))

		subs, err := st.Reporting().DirectSubordinates(ctx, manager.ID, tenant.ID)
		require.NoError(t, err)
		require.Empty(t, subs)

		subs, err = st.Reporting().DirectSubordinates(ctx, other.ID, tenant.ID)
		require.NoError(t, err)
		require.Equal(t, []string{rep.ID}, subs)
	})

	t.Run("empty manager clears the edge", func(t *testing.T) {
		require.NoError(t, svc.AssignManager(ctx, actor, rep.ID, "", tenant.ID))

		subs, err := st.Reporting().DirectSubordinates(ctx, manager.ID, tenant.ID)
		require.NoError(t, err)
		require.Empty(t, subs)
	})

	t.Run("self-report is rejected", func(t *testing.T) {
		err := svc.AssignManager(ctx, actor, rep.ID, rep.ID, tenant.ID)
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("non-member manager is rejected", func(t *testing.T) {
		other := seedTenant(t, ctx, st, "Globex")
		err := svc.AssignManager(ctx, actor, rep.ID, manager.ID, other.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
