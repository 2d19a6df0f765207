package access

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accesskit/pkg/plans"
)

// Resolver reconciles subscription rows and access grants into one
// ResolvedAccess value. It holds no locks and mutates no shared state, so a
// single instance serves arbitrarily many concurrent requests.
type Resolver struct {
	subs    SubscriptionStore
	grants  GrantStore
	catalog plans.Catalog
	now     NowFunc
	log     *slog.Logger
}

// ResolverOption configures a Resolver instance.
type ResolverOption func(*Resolver)

// WithClock replaces the wall clock. Tests inject fixed instants to make
// resolution deterministic.
func WithClock(now NowFunc) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the observability sink for invariant-violation warnings.
// Absence of a logger suppresses diagnostics output but never changes
// resolution outcomes.
func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a Resolver with the given collaborators.
// Panics if any required dependency is nil to fail fast during initialization.
func NewResolver(subs SubscriptionStore, grants GrantStore, catalog plans.Catalog, opts ...ResolverOption) *Resolver {
	if subs == nil {
		panic("access: SubscriptionStore is required")
	}
	if grants == nil {
		panic("access: GrantStore is required")
	}
	if catalog == nil {
		panic("access: plans.Catalog is required")
	}

	r := &Resolver{
		subs:    subs,
		grants:  grants,
		catalog: catalog,
		now:     WallClock,
		log:     slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ActiveSubscription returns the org's most relevant subscription and whether
// it is access-granting right now. When no subscription is active, the
// most-recent-by-period-end row is still returned so callers can inspect
// history, but it must never be treated as access-granting.
func (r *Resolver) ActiveSubscription(ctx context.Context, orgID uuid.UUID) (*Subscription, bool, error) {
	sub, active, _, err := r.pickActiveSubscription(ctx, orgID, r.now())
	return sub, active, err
}

// ResolveOrgAccess resolves the org's current access at wall-clock time.
func (r *Resolver) ResolveOrgAccess(ctx context.Context, orgID uuid.UUID) (*ResolvedAccess, error) {
	return r.ResolveOrgAccessAt(ctx, orgID, r.now())
}

// ResolveOrgAccessAt resolves the org's access at a fixed instant (epoch
// seconds). Deterministic given identical store contents and instant.
//
// The decision is an ordered list; the first matching branch wins:
//
//  1. an active subscription resolves to its plan with full access;
//  2. otherwise the highest-precedence active grant resolves to its
//     synthetic plan with full access;
//  3. otherwise the latest expired non-revoked grant keeps the grant's plan
//     identity but degrades the org to read-only;
//  4. otherwise the org falls back to the catalog's free plan.
//
// Store read failures propagate as errors; callers must never interpret a
// resolver error as free access.
func (r *Resolver) ResolveOrgAccessAt(ctx context.Context, orgID uuid.UUID, now int64) (*ResolvedAccess, error) {
	sub, active, diag, err := r.pickActiveSubscription(ctx, orgID, now)
	if err != nil {
		return nil, err
	}

	var diags []Diagnostic
	if diag != nil {
		diags = append(diags, *diag)
	}

	if active {
		plan, err := r.catalog.Plan(sub.PlanID)
		if err != nil {
			return nil, fmt.Errorf("subscription %s references plan %q: %w", sub.ID, sub.PlanID, err)
		}
		return &ResolvedAccess{
			EffectivePlanID: plan.ID,
			Source:          SourceSubscription,
			Mode:            ModeFull,
			Entitlements:    plan.Entitlements,
			Quotas:          plan.Quotas,
			Subscription:    sub.summary(),
			Diagnostics:     diags,
		}, nil
	}

	activeGrants, err := r.grants.ListActive(ctx, orgID, now)
	if err != nil {
		return nil, err
	}

	if grant := selectGrant(activeGrants); grant != nil {
		plan, err := r.catalog.GrantPlan(string(grant.Type))
		if err != nil {
			return nil, fmt.Errorf("grant %s of type %q: %w", grant.ID, grant.Type, err)
		}
		return &ResolvedAccess{
			EffectivePlanID: plan.ID,
			Source:          SourceGrant,
			Mode:            ModeFull,
			Entitlements:    plan.Entitlements,
			Quotas:          plan.Quotas,
			Grant:           grant.summary(),
			Diagnostics:     diags,
		}, nil
	}

	nonRevoked, err := r.grants.ListNonRevoked(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if grant := latestExpired(nonRevoked, now); grant != nil {
		plan, err := r.catalog.GrantPlan(string(grant.Type))
		if err != nil {
			return nil, fmt.Errorf("grant %s of type %q: %w", grant.ID, grant.Type, err)
		}
		// The org keeps the grant's plan identity for display but is
		// restricted to non-mutating operations by downstream policy.
		return &ResolvedAccess{
			EffectivePlanID: plan.ID,
			Source:          SourceGrant,
			Mode:            ModeReadOnly,
			Entitlements:    plan.Entitlements,
			Quotas:          plan.Quotas,
			Grant:           grant.summary(),
			Diagnostics:     diags,
		}, nil
	}

	free, err := r.catalog.Plan(r.catalog.FreePlanID())
	if err != nil {
		return nil, fmt.Errorf("free plan %q: %w", r.catalog.FreePlanID(), err)
	}
	return &ResolvedAccess{
		EffectivePlanID: free.ID,
		Source:          SourceFree,
		Mode:            ModeFree,
		Entitlements:    free.Entitlements,
		Quotas:          free.Quotas,
		Diagnostics:     diags,
	}, nil
}

// pickActiveSubscription selects the single subscription the resolution is
// based on. More than one active subscription is an invariant violation the
// billing sync should prevent; the resolver tolerates it, picks the one with
// the latest period end, and reports the org for follow-up.
func (r *Resolver) pickActiveSubscription(ctx context.Context, orgID uuid.UUID, now int64) (*Subscription, bool, *Diagnostic, error) {
	subs, err := r.subs.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, false, nil, err
	}

	if len(subs) == 0 {
		return nil, false, nil, nil
	}

	// Re-sort locally rather than trusting store ordering, so determinism
	// is owned by the resolver: latest period end first, nil period end last.
	slices.SortStableFunc(subs, func(a, b Subscription) int {
		return cmp.Compare(periodEndRank(b), periodEndRank(a))
	})

	var actives []*Subscription
	for i := range subs {
		if subs[i].IsActiveAt(now) {
			actives = append(actives, &subs[i])
		}
	}

	switch len(actives) {
	case 0:
		return &subs[0], false, nil, nil
	case 1:
		return actives[0], true, nil, nil
	default:
		diag := &Diagnostic{
			Code:   DiagMultipleActiveSubscriptions,
			OrgID:  orgID,
			Detail: fmt.Sprintf("%d subscriptions active simultaneously", len(actives)),
		}
		r.log.WarnContext(ctx, "multiple active subscriptions for org",
			"org_id", orgID,
			"active_count", len(actives),
			"picked_subscription_id", actives[0].ID,
		)
		return actives[0], true, diag, nil
	}
}

// periodEndRank orders subscriptions by period end with nil ranked below any
// set value.
func periodEndRank(s Subscription) int64 {
	if s.PeriodEnd == nil {
		return math.MinInt64
	}
	return *s.PeriodEnd
}

// selectGrant picks the winning grant among active ones: trial outranks
// single_project, latest expiry breaks ties.
func selectGrant(grants []Grant) *Grant {
	var best *Grant
	for i := range grants {
		if grants[i].outranks(best) {
			best = &grants[i]
		}
	}
	return best
}

// latestExpired picks the non-revoked grant with the latest expiry that has
// already run out at the given instant.
func latestExpired(grants []Grant, now int64) *Grant {
	var best *Grant
	for i := range grants {
		g := &grants[i]
		if !g.IsExpiredAt(now) {
			continue
		}
		if best == nil || g.ExpiresAt > best.ExpiresAt {
			best = g
		}
	}
	return best
}
