package access

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/accesskit/pkg/plans"
)

// Source identifies which entitlement source won the resolution.
type Source string

const (
	SourceSubscription Source = "subscription"
	SourceGrant        Source = "grant"
	SourceFree         Source = "free"
)

// Mode is the coarse-grained permission level derived from the source.
type Mode string

const (
	// ModeFull allows all operations within the effective plan.
	ModeFull Mode = "full"
	// ModeReadOnly restricts the org to non-mutating operations. This engine
	// only signals the mode; enforcement is the caller's responsibility.
	ModeReadOnly Mode = "read_only"
	// ModeFree is full access at the default plan's level.
	ModeFree Mode = "free"
)

// SubscriptionSummary is the subscription slice of a resolution result.
type SubscriptionSummary struct {
	ID                uuid.UUID
	PlanID            string
	Status            SubscriptionStatus
	PeriodEnd         *int64
	CancelAtPeriodEnd bool
}

// GrantSummary is the grant slice of a resolution result.
type GrantSummary struct {
	ID        uuid.UUID
	Type      GrantType
	StartsAt  int64
	ExpiresAt int64
}

// DiagnosticCode classifies invariant violations the resolver tolerated.
type DiagnosticCode string

const (
	// DiagMultipleActiveSubscriptions is emitted when more than one
	// subscription was access-granting at resolution time. The resolver
	// picks the one with the latest period end and carries on.
	DiagMultipleActiveSubscriptions DiagnosticCode = "multiple_active_subscriptions"
)

// Diagnostic reports a tolerated invariant violation. Diagnostics never
// change the resolution outcome; they exist for operator follow-up.
type Diagnostic struct {
	Code   DiagnosticCode
	OrgID  uuid.UUID
	Detail string
}

// ResolvedAccess is the single authoritative answer to what an org may do
// right now. It is recomputed on every resolution call and never cached
// inside the engine; callers may keep it for the lifetime of one request.
type ResolvedAccess struct {
	EffectivePlanID string
	Source          Source
	Mode            Mode
	Entitlements    map[plans.Entitlement]bool
	Quotas          map[plans.Quota]int64
	Subscription    *SubscriptionSummary
	Grant           *GrantSummary
	Diagnostics     []Diagnostic
}

// Entitled reports whether the effective plan enables the capability.
// Missing keys are treated as disabled.
func (a *ResolvedAccess) Entitled(e plans.Entitlement) bool {
	if a == nil {
		return false
	}
	return a.Entitlements[e]
}

// QuotaLimit returns the effective limit for a quota key and whether the key
// is defined by the effective plan.
func (a *ResolvedAccess) QuotaLimit(q plans.Quota) (int64, bool) {
	if a == nil {
		return 0, false
	}
	limit, ok := a.Quotas[q]
	return limit, ok
}

// ReadOnly reports whether mutating operations must be rejected downstream.
func (a *ResolvedAccess) ReadOnly() bool {
	return a != nil && a.Mode == ModeReadOnly
}
