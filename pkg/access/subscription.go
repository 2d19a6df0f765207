package access

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the current state of a synced subscription row.
// The set mirrors the billing processor's lifecycle states.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusPaused            SubscriptionStatus = "paused"
	StatusCanceled          SubscriptionStatus = "canceled"
	StatusUnpaid            SubscriptionStatus = "unpaid"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
)

// Subscription is one recurring-billing relationship for an org, written by
// the billing sync collaborator and read-only from this package's perspective.
//
// Period boundaries are epoch seconds. All engine-internal time comparisons
// use a single integer representation; conversion from wall-clock types
// happens at the store boundary only.
type Subscription struct {
	ID                uuid.UUID
	OrgID             uuid.UUID
	PlanID            string
	Status            SubscriptionStatus
	PeriodStart       int64
	PeriodEnd         *int64 // nil when the processor has not set one
	CancelAtPeriodEnd bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CanceledAt        *time.Time
	EndedAt           *time.Time
}

// IsActiveAt reports whether the subscription grants access at the given
// instant (epoch seconds). Pure and safe to call concurrently.
//
// A trialing subscription is always access-granting and never considered
// expired by this rule. An active subscription scheduled for cancellation is
// access-granting strictly before its period end. A past_due subscription
// keeps access as a grace period until its period end; without a period end
// there is no grace. Every other status denies access.
func (s *Subscription) IsActiveAt(now int64) bool {
	if s == nil {
		return false
	}

	switch s.Status {
	case StatusTrialing:
		return true
	case StatusActive:
		if s.CancelAtPeriodEnd && s.PeriodEnd != nil {
			return now < *s.PeriodEnd
		}
		return true
	case StatusPastDue:
		return s.PeriodEnd != nil && now < *s.PeriodEnd
	default:
		return false
	}
}

// summary projects the row into the shape exposed on ResolvedAccess.
func (s *Subscription) summary() *SubscriptionSummary {
	if s == nil {
		return nil
	}
	return &SubscriptionSummary{
		ID:                s.ID,
		PlanID:            s.PlanID,
		Status:            s.Status,
		PeriodEnd:         s.PeriodEnd,
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
}
