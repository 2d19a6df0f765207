package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/accesskit/pkg/access"
)

// SubscriptionStore implements access.SubscriptionStore over pgx. Rows are
// written by the billing sync; this store only reads.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewSubscriptionStore creates a SubscriptionStore backed by the given pool.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	if pool == nil {
		panic("pg: pgxpool.Pool is required")
	}
	return &SubscriptionStore{pool: pool}
}

// ListByOrg returns all subscriptions for an org, latest period end first and
// rows without a period end last. Period boundaries are stored as epoch
// seconds, so no time-unit conversion happens on the way out.
func (s *SubscriptionStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]access.Subscription, error) {
	const query = `
		SELECT id, org_id, plan_id, status, period_start, period_end,
		       cancel_at_period_end, created_at, updated_at, canceled_at, ended_at
		FROM subscriptions
		WHERE org_id = $1
		ORDER BY period_end DESC NULLS LAST`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions for org %s: %w", orgID, err)
	}
	defer rows.Close()

	var subs []access.Subscription
	for rows.Next() {
		var sub access.Subscription
		var status string
		if err := rows.Scan(
			&sub.ID,
			&sub.OrgID,
			&sub.PlanID,
			&status,
			&sub.PeriodStart,
			&sub.PeriodEnd,
			&sub.CancelAtPeriodEnd,
			&sub.CreatedAt,
			&sub.UpdatedAt,
			&sub.CanceledAt,
			&sub.EndedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription row: %w", err)
		}
		sub.Status = access.SubscriptionStatus(status)
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription rows: %w", err)
	}

	return subs, nil
}
