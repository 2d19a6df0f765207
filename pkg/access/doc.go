// Package access resolves the single authoritative answer to "what is this
// org allowed to do right now" by reconciling two independent, time-bounded
// entitlement sources: a synced recurring subscription and manually or
// promotionally issued access grants.
//
// The package is a library consumed by request handlers. It talks to a data
// store and a plan catalog; it does not talk to the payment processor, send
// notifications, or enforce authorization itself.
//
// # Resolution
//
// ResolveOrgAccess evaluates an ordered decision list; the first matching
// branch wins:
//
//   - an active subscription resolves to its plan with full access
//   - otherwise the highest-precedence active grant (trial outranks
//     single_project, latest expiry breaks ties) resolves to its synthetic
//     plan with full access
//   - otherwise the latest expired non-revoked grant keeps its plan identity
//     but degrades the org to read-only
//   - otherwise the org falls back to the catalog's free plan
//
//	resolver := access.NewResolver(subStore, grantStore, catalog,
//	    access.WithLogger(log),
//	)
//
//	acc, err := resolver.ResolveOrgAccess(ctx, orgID)
//	if err != nil {
//	    // store failure; never treat as free access
//	}
//	if acc.ReadOnly() {
//	    // reject mutating operations
//	}
//	if !acc.Entitled(plans.EntitlementInviteMember) {
//	    // show upgrade prompt
//	}
//
// Results are recomputed on every call. A request pipeline that needs the
// value in several places should resolve once and carry it via
// SetResolvedAccessToContext.
//
// # Time
//
// All engine-internal time is epoch seconds; stores normalize wall-clock
// types at their boundary. Resolution defaults to access.WallClock and tests
// inject fixed instants via WithClock or the ...At variants:
//
//	acc, err := resolver.ResolveOrgAccessAt(ctx, orgID, fixedNow)
//
// # Invariant violations
//
// At most one subscription per org should be access-granting at a time. When
// the store disagrees, the resolver deterministically picks the one with the
// latest period end, logs a warning, and attaches a Diagnostic to the result.
// Diagnostics never change outcomes and never abort the caller's request.
//
// # Grant lifecycle
//
// GrantService owns grant administration:
//
//	svc := access.NewGrantService(grantStore)
//	grant, err := svc.Issue(ctx, orgID, access.GrantTypeTrial, startsAt, expiresAt, nil)
//	if errors.Is(err, access.ErrTrialGrantExists) {
//	    // at most one non-revoked trial per org
//	}
//
// Grants are never deleted: extension moves the expiry forward, revocation
// sets the revocation timestamp.
package access
