package plans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accesskit/pkg/plans"
)

func testPlans() map[string]plans.Plan {
	return map[string]plans.Plan{
		"free": {
			ID:   "free",
			Name: "Free",
			Entitlements: map[plans.Entitlement]bool{
				plans.EntitlementCreateProject: true,
			},
			Quotas: map[plans.Quota]int64{
				plans.QuotaProjects:      1,
				plans.QuotaCollaborators: 0,
			},
		},
		"pro": {
			ID:   "pro",
			Name: "Pro",
			Entitlements: map[plans.Entitlement]bool{
				plans.EntitlementCreateProject: true,
				plans.EntitlementInviteMember:  true,
				plans.EntitlementAPIAccess:     true,
			},
			Quotas: map[plans.Quota]int64{
				plans.QuotaProjects:      50,
				plans.QuotaCollaborators: plans.Unlimited,
			},
		},
	}
}

func testGrantPlans() map[string]plans.Plan {
	return map[string]plans.Plan{
		"trial": {
			ID:   "trial",
			Name: "Trial",
			Entitlements: map[plans.Entitlement]bool{
				plans.EntitlementCreateProject: true,
				plans.EntitlementInviteMember:  true,
			},
			Quotas: map[plans.Quota]int64{
				plans.QuotaProjects:      10,
				plans.QuotaCollaborators: 5,
			},
		},
		"single_project": {
			ID:   "single_project",
			Name: "Single Project",
			Entitlements: map[plans.Entitlement]bool{
				plans.EntitlementCreateProject: true,
			},
			Quotas: map[plans.Quota]int64{
				plans.QuotaProjects:      1,
				plans.QuotaCollaborators: 3,
			},
		},
	}
}

func TestNewInMemCatalog(t *testing.T) {
	t.Parallel()

	t.Run("returns defined plans", func(t *testing.T) {
		t.Parallel()
		catalog, err := plans.NewInMemCatalog("free", testPlans(), testGrantPlans())
		require.NoError(t, err)

		plan, err := catalog.Plan("pro")
		require.NoError(t, err)
		assert.Equal(t, "pro", plan.ID)
		assert.True(t, plan.Entitled(plans.EntitlementAPIAccess))

		limit, ok := plan.QuotaLimit(plans.QuotaCollaborators)
		require.True(t, ok)
		assert.True(t, plans.IsUnlimited(limit))
	})

	t.Run("returns grant plans by grant type", func(t *testing.T) {
		t.Parallel()
		catalog, err := plans.NewInMemCatalog("free", testPlans(), testGrantPlans())
		require.NoError(t, err)

		plan, err := catalog.GrantPlan("trial")
		require.NoError(t, err)
		assert.Equal(t, "trial", plan.ID)
		assert.True(t, plan.Entitled(plans.EntitlementInviteMember))
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()
		catalog, err := plans.NewInMemCatalog("free", testPlans(), testGrantPlans())
		require.NoError(t, err)

		_, err = catalog.Plan("enterprise")
		assert.ErrorIs(t, err, plans.ErrPlanNotFound)

		_, err = catalog.GrantPlan("lifetime")
		assert.ErrorIs(t, err, plans.ErrGrantPlanNotFound)
	})

	t.Run("free plan must exist", func(t *testing.T) {
		t.Parallel()
		_, err := plans.NewInMemCatalog("starter", testPlans(), nil)
		assert.ErrorIs(t, err, plans.ErrInvalidCatalog)
	})

	t.Run("rejects plan ID mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := plans.NewInMemCatalog("free", map[string]plans.Plan{
			"free": {ID: "fre", Name: "Free"},
		}, nil)
		assert.ErrorIs(t, err, plans.ErrInvalidCatalog)
	})

	t.Run("rejects negative quota that is not the sentinel", func(t *testing.T) {
		t.Parallel()
		_, err := plans.NewInMemCatalog("free", map[string]plans.Plan{
			"free": {
				ID:     "free",
				Quotas: map[plans.Quota]int64{plans.QuotaProjects: -5},
			},
		}, nil)
		assert.ErrorIs(t, err, plans.ErrInvalidCatalog)
	})

	t.Run("callers cannot mutate catalog state", func(t *testing.T) {
		t.Parallel()
		catalog, err := plans.NewInMemCatalog("free", testPlans(), testGrantPlans())
		require.NoError(t, err)

		plan, err := catalog.Plan("free")
		require.NoError(t, err)
		plan.Quotas[plans.QuotaProjects] = 999
		plan.Entitlements[plans.EntitlementExportData] = true

		again, err := catalog.Plan("free")
		require.NoError(t, err)
		assert.Equal(t, int64(1), again.Quotas[plans.QuotaProjects])
		assert.False(t, again.Entitled(plans.EntitlementExportData))
	})
}

func TestIsUnlimited(t *testing.T) {
	t.Parallel()

	assert.True(t, plans.IsUnlimited(plans.Unlimited))
	assert.False(t, plans.IsUnlimited(0))
	assert.False(t, plans.IsUnlimited(100))
}
