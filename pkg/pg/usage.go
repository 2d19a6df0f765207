package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageSource implements quota.UsageSource by counting rows in the owning
// tables. Counts are derived on demand and never materialized.
type UsageSource struct {
	pool *pgxpool.Pool
}

// NewUsageSource creates a UsageSource backed by the given pool.
func NewUsageSource(pool *pgxpool.Pool) *UsageSource {
	if pool == nil {
		panic("pg: pgxpool.Pool is required")
	}
	return &UsageSource{pool: pool}
}

// CountProjects returns the number of projects in the org.
func (s *UsageSource) CountProjects(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE org_id = $1`, orgID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count projects for org %s: %w", orgID, err)
	}
	return count, nil
}

// CountCollaborators returns the number of org members excluding owners.
// Owners never count against the collaborator quota.
func (s *UsageSource) CountCollaborators(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM org_members WHERE org_id = $1 AND role <> 'owner'`, orgID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count collaborators for org %s: %w", orgID, err)
	}
	return count, nil
}
