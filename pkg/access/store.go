package access

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStore defines the read path for synced subscription rows.
// Rows are created and mutated by the billing sync collaborator only.
type SubscriptionStore interface {
	// ListByOrg returns all subscriptions for an org ordered by period end
	// descending, rows without a period end last. Store errors must be
	// returned as-is; the resolver never maps them to "no access".
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]Subscription, error)
}

// GrantStore defines persistence for access grants.
type GrantStore interface {
	// Get retrieves a grant by ID.
	// Returns ErrGrantNotFound if no grant exists.
	Get(ctx context.Context, id uuid.UUID) (*Grant, error)

	// ListActive returns grants active at the given instant: not revoked,
	// started, and not yet expired.
	ListActive(ctx context.Context, orgID uuid.UUID, now int64) ([]Grant, error)

	// ListNonRevoked returns all grants for an org that have not been
	// revoked, regardless of their time window.
	ListNonRevoked(ctx context.Context, orgID uuid.UUID) ([]Grant, error)

	// Create persists a new grant row.
	Create(ctx context.Context, grant *Grant) error

	// UpdateExpiry moves a grant's expiry to a new instant.
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt int64) error

	// SetRevoked marks a grant revoked. Rows are never deleted.
	SetRevoked(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
}
