package access_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accesskit/pkg/access"
	"github.com/dmitrymomot/accesskit/pkg/plans"
)

// Mock implementations
type mockSubStore struct {
	mock.Mock
}

func (m *mockSubStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]access.Subscription, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.Subscription), args.Error(1)
}

type mockGrantStore struct {
	mock.Mock
}

func (m *mockGrantStore) Get(ctx context.Context, id uuid.UUID) (*access.Grant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Grant), args.Error(1)
}

func (m *mockGrantStore) ListActive(ctx context.Context, orgID uuid.UUID, now int64) ([]access.Grant, error) {
	args := m.Called(ctx, orgID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.Grant), args.Error(1)
}

func (m *mockGrantStore) ListNonRevoked(ctx context.Context, orgID uuid.UUID) ([]access.Grant, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.Grant), args.Error(1)
}

func (m *mockGrantStore) Create(ctx context.Context, grant *access.Grant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *mockGrantStore) UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt int64) error {
	args := m.Called(ctx, id, expiresAt)
	return args.Error(0)
}

func (m *mockGrantStore) SetRevoked(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	args := m.Called(ctx, id, revokedAt)
	return args.Error(0)
}

// Test helpers
func testCatalog(t *testing.T) plans.Catalog {
	t.Helper()

	catalog, err := plans.NewInMemCatalog("free",
		map[string]plans.Plan{
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
		},
		map[string]plans.Plan{
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
		},
	)
	require.NoError(t, err)
	return catalog
}

func fixedClock(now int64) access.NowFunc {
	return func() int64 { return now }
}

func TestResolver_ResolveOrgAccess(t *testing.T) {
	t.Parallel()

	now := epoch(2024, time.March, 15, 12)
	orgID := uuid.New()

	t.Run("active subscription wins over active trial grant", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{
			{
				ID:        uuid.New(),
				OrgID:     orgID,
				PlanID:    "pro",
				Status:    access.StatusActive,
				PeriodEnd: ptr(epoch(2024, time.April, 1, 0)),
			},
		}, nil)
		// Grant store must not be consulted: no expectations registered.

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		acc, err := r.ResolveOrgAccess(context.Background(), orgID)
		require.NoError(t, err)

		assert.Equal(t, access.SourceSubscription, acc.Source)
		assert.Equal(t, access.ModeFull, acc.Mode)
		assert.Equal(t, "pro", acc.EffectivePlanID)
		require.NotNil(t, acc.Subscription)
		assert.Equal(t, "pro", acc.Subscription.PlanID)
		assert.Nil(t, acc.Grant)
		assert.True(t, acc.Entitled(plans.EntitlementAPIAccess))
		grants.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("trial grant outranks single_project grant", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)
		grants.On("ListActive", mock.Anything, orgID, now).Return([]access.Grant{
			{
				ID:        uuid.New(),
				OrgID:     orgID,
				Type:      access.GrantTypeSingleProject,
				StartsAt:  epoch(2024, time.March, 1, 0),
				ExpiresAt: epoch(2024, time.December, 1, 0),
			},
			{
				ID:        uuid.New(),
				OrgID:     orgID,
				Type:      access.GrantTypeTrial,
				StartsAt:  epoch(2024, time.March, 1, 0),
				ExpiresAt: epoch(2024, time.April, 1, 0),
			},
		}, nil)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		acc, err := r.ResolveOrgAccess(context.Background(), orgID)
		require.NoError(t, err)

		assert.Equal(t, access.SourceGrant, acc.Source)
		assert.Equal(t, access.ModeFull, acc.Mode)
		assert.Equal(t, "trial", acc.EffectivePlanID)
		require.NotNil(t, acc.Grant)
		// Trial wins even though the single_project grant expires later.
		assert.Equal(t, access.GrantTypeTrial, acc.Grant.Type)
	})

	t.Run("same grant type tie-breaks on latest expiry", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		laterID := uuid.New()
		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)
		grants.On("ListActive", mock.Anything, orgID, now).Return([]access.Grant{
			{
				ID:        uuid.New(),
				OrgID:     orgID,
				Type:      access.GrantTypeSingleProject,
				StartsAt:  epoch(2024, time.March, 1, 0),
				ExpiresAt: epoch(2024, time.April, 1, 0),
			},
			{
				ID:        laterID,
				OrgID:     orgID,
				Type:      access.GrantTypeSingleProject,
				StartsAt:  epoch(2024, time.March, 1, 0),
				ExpiresAt: epoch(2024, time.May, 1, 0),
			},
		}, nil)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		acc, err := r.ResolveOrgAccess(context.Background(), orgID)
		require.NoError(t, err)
		require.NotNil(t, acc.Grant)
		assert.Equal(t, laterID, acc.Grant.ID)
	})

	t.Run("expired grant degrades to read-only", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)
		grants.On("ListActive", mock.Anything, orgID, now).Return([]access.Grant{}, nil)
		grants.On("ListNonRevoked", mock.Anything, orgID).Return([]access.Grant{
			{
				ID:        uuid.New(),
				OrgID:     orgID,
				Type:      access.GrantTypeTrial,
				StartsAt:  epoch(2024, time.February, 1, 0),
				ExpiresAt: now - 86400, // expired one day ago
			},
		}, nil)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		acc, err := r.ResolveOrgAccess(context.Background(), orgID)
		require.NoError(t, err)

		assert.Equal(t, access.SourceGrant, acc.Source)
		assert.Equal(t, access.ModeReadOnly, acc.Mode)
		assert.True(t, acc.ReadOnly())
		assert.Equal(t, "trial", acc.EffectivePlanID)
		require.NotNil(t, acc.Grant)
	})

	t.Run("latest expired grant wins among several", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)
		grants.On("ListActive", mock.Anything, orgID, now).Return([]access.Grant{}, nil)
		grants.On("ListNonRevoked", mock.Anything, orgID).Return([]access.Grant{
			{
				ID:        uuid.New(),
				Type:      access.GrantTypeTrial,
				StartsAt:  epoch(2023, time.November, 1, 0),
				ExpiresAt: epoch(2023, time.December, 1, 0),
			},
			{
				ID:        uuid.New(),
				Type:      access.GrantTypeSingleProject,
				StartsAt:  epoch(2024, time.January, 1, 0),
				ExpiresAt: epoch(2024, time.February, 1, 0),
			},
		}, nil)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		acc, err := r.ResolveOrgAccess(context.Background(), orgID)
		require.NoError(t, err)
		require.NotNil(t, acc.Grant)
		assert.Equal(t, access.GrantTypeSingleProject, acc.Grant.Type)
		assert.Equal(t, epoch(2024, time.February, 1, 0), acc.Grant.ExpiresAt)
	})

	t.Run("free fallback with no subscriptions and no grants", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)
		grants.On("ListActive", mock.Anything, orgID, now).Return([]access.Grant{}, nil)
		grants.On("ListNonRevoked", mock.Anything, orgID).Return([]access.Grant{}, nil)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		acc, err := r.ResolveOrgAccess(context.Background(), orgID)
		require.NoError(t, err)

		assert.Equal(t, access.SourceFree, acc.Source)
		assert.Equal(t, access.ModeFree, acc.Mode)
		assert.Equal(t, "free", acc.EffectivePlanID)
		assert.Nil(t, acc.Subscription)
		assert.Nil(t, acc.Grant)
		assert.True(t, acc.Entitled(plans.EntitlementCreateProject))
		assert.False(t, acc.Entitled(plans.EntitlementInviteMember))
	})

	t.Run("inactive subscription falls through to grants", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{
			{
				ID:        uuid.New(),
				OrgID:     orgID,
				PlanID:    "pro",
				Status:    access.StatusCanceled,
				PeriodEnd: ptr(epoch(2024, time.February, 1, 0)),
			},
		}, nil)
		grants.On("ListActive", mock.Anything, orgID, now).Return([]access.Grant{
			{
				ID:        uuid.New(),
				OrgID:     orgID,
				Type:      access.GrantTypeSingleProject,
				StartsAt:  epoch(2024, time.March, 1, 0),
				ExpiresAt: epoch(2024, time.June, 1, 0),
			},
		}, nil)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		acc, err := r.ResolveOrgAccess(context.Background(), orgID)
		require.NoError(t, err)
		assert.Equal(t, access.SourceGrant, acc.Source)
		assert.Equal(t, "single_project", acc.EffectivePlanID)
	})

	t.Run("store errors propagate and are never mapped to free", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		storeErr := errors.New("connection refused")
		subs.On("ListByOrg", mock.Anything, orgID).Return(nil, storeErr)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		acc, err := r.ResolveOrgAccess(context.Background(), orgID)
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.Nil(t, acc)
	})

	t.Run("grant store error propagates", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		storeErr := errors.New("connection refused")
		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)
		grants.On("ListActive", mock.Anything, orgID, now).Return(nil, storeErr)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		_, err := r.ResolveOrgAccess(context.Background(), orgID)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("unknown subscription plan is an error", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		grants := &mockGrantStore{}

		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{
			{ID: uuid.New(), OrgID: orgID, PlanID: "legacy", Status: access.StatusActive},
		}, nil)

		r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

		_, err := r.ResolveOrgAccess(context.Background(), orgID)
		assert.ErrorIs(t, err, plans.ErrPlanNotFound)
	})
}

func TestResolver_MultipleActiveSubscriptions(t *testing.T) {
	t.Parallel()

	now := epoch(2024, time.March, 15, 12)
	orgID := uuid.New()

	subs := &mockSubStore{}
	grants := &mockGrantStore{}

	laterID := uuid.New()
	subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{
		{
			ID:        uuid.New(),
			OrgID:     orgID,
			PlanID:    "free",
			Status:    access.StatusActive,
			PeriodEnd: ptr(epoch(2024, time.April, 1, 0)),
		},
		{
			ID:        laterID,
			OrgID:     orgID,
			PlanID:    "pro",
			Status:    access.StatusActive,
			PeriodEnd: ptr(epoch(2024, time.May, 1, 0)),
		},
	}, nil)

	var logBuf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logBuf, nil))

	r := access.NewResolver(subs, grants, testCatalog(t),
		access.WithClock(fixedClock(now)),
		access.WithLogger(log),
	)

	acc, err := r.ResolveOrgAccess(context.Background(), orgID)
	require.NoError(t, err)

	// Tolerate and report: latest period end wins, nothing crashes.
	assert.Equal(t, "pro", acc.EffectivePlanID)
	require.NotNil(t, acc.Subscription)
	assert.Equal(t, laterID, acc.Subscription.ID)

	require.Len(t, acc.Diagnostics, 1)
	assert.Equal(t, access.DiagMultipleActiveSubscriptions, acc.Diagnostics[0].Code)
	assert.Equal(t, orgID, acc.Diagnostics[0].OrgID)

	assert.Contains(t, logBuf.String(), "multiple active subscriptions")
	assert.Contains(t, logBuf.String(), "WARN")
}

func TestResolver_Determinism(t *testing.T) {
	t.Parallel()

	now := epoch(2024, time.March, 15, 12)
	orgID := uuid.New()

	subs := &mockSubStore{}
	grants := &mockGrantStore{}

	subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)
	grants.On("ListActive", mock.Anything, orgID, now).Return([]access.Grant{
		{
			ID:        uuid.New(),
			OrgID:     orgID,
			Type:      access.GrantTypeTrial,
			StartsAt:  epoch(2024, time.March, 1, 0),
			ExpiresAt: epoch(2024, time.April, 1, 0),
		},
	}, nil)

	r := access.NewResolver(subs, grants, testCatalog(t), access.WithClock(fixedClock(now)))

	first, err := r.ResolveOrgAccess(context.Background(), orgID)
	require.NoError(t, err)
	second, err := r.ResolveOrgAccess(context.Background(), orgID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolver_ActiveSubscription(t *testing.T) {
	t.Parallel()

	now := epoch(2024, time.March, 15, 12)
	orgID := uuid.New()

	t.Run("no subscriptions", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)

		r := access.NewResolver(subs, &mockGrantStore{}, testCatalog(t), access.WithClock(fixedClock(now)))

		sub, active, err := r.ActiveSubscription(context.Background(), orgID)
		require.NoError(t, err)
		assert.Nil(t, sub)
		assert.False(t, active)
	})

	t.Run("zero active returns latest for inspection only", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		latestID := uuid.New()
		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{
			{
				ID:        uuid.New(),
				Status:    access.StatusCanceled,
				PeriodEnd: ptr(epoch(2023, time.June, 1, 0)),
			},
			{
				ID:        latestID,
				Status:    access.StatusCanceled,
				PeriodEnd: ptr(epoch(2024, time.January, 1, 0)),
			},
		}, nil)

		r := access.NewResolver(subs, &mockGrantStore{}, testCatalog(t), access.WithClock(fixedClock(now)))

		sub, active, err := r.ActiveSubscription(context.Background(), orgID)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, latestID, sub.ID)
		assert.False(t, active)
	})

	t.Run("nil period end ranks last", func(t *testing.T) {
		t.Parallel()
		subs := &mockSubStore{}
		withEnd := uuid.New()
		subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{
			{ID: uuid.New(), Status: access.StatusCanceled},
			{
				ID:        withEnd,
				Status:    access.StatusCanceled,
				PeriodEnd: ptr(epoch(2020, time.January, 1, 0)),
			},
		}, nil)

		r := access.NewResolver(subs, &mockGrantStore{}, testCatalog(t), access.WithClock(fixedClock(now)))

		sub, _, err := r.ActiveSubscription(context.Background(), orgID)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, withEnd, sub.ID)
	})
}

// End-to-end example from the product requirements: an org holding a trial
// grant for the first half of January, resolved mid-window.
func TestResolver_TrialGrantEndToEnd(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC).Unix()
	startsAt := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	expiresAt := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC).Unix()

	subs := &mockSubStore{}
	grants := &mockGrantStore{}

	subs.On("ListByOrg", mock.Anything, orgID).Return([]access.Subscription{}, nil)
	grants.On("ListActive", mock.Anything, orgID, now).Return([]access.Grant{
		{
			ID:        uuid.New(),
			OrgID:     orgID,
			Type:      access.GrantTypeTrial,
			StartsAt:  startsAt,
			ExpiresAt: expiresAt,
		},
	}, nil)

	r := access.NewResolver(subs, grants, testCatalog(t))

	acc, err := r.ResolveOrgAccessAt(context.Background(), orgID, now)
	require.NoError(t, err)

	assert.Equal(t, access.SourceGrant, acc.Source)
	assert.Equal(t, access.ModeFull, acc.Mode)
	assert.Equal(t, "trial", acc.EffectivePlanID)
	require.NotNil(t, acc.Grant)
	assert.Equal(t, access.GrantTypeTrial, acc.Grant.Type)
	assert.Equal(t, expiresAt, acc.Grant.ExpiresAt)
	assert.Nil(t, acc.Subscription)
}
