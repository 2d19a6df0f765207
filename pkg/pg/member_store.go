package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Member is one org-membership row. Rows with role "owner" are excluded from
// the collaborator quota.
type Member struct {
	OrgID     uuid.UUID
	UserID    uuid.UUID
	Role      string
	CreatedAt time.Time
}

// MemberStore persists org memberships. Adding a non-owner member is a
// quota-counted admission, gated the same way as project creation.
type MemberStore struct {
	pool *pgxpool.Pool
}

// NewMemberStore creates a MemberStore backed by the given pool.
func NewMemberStore(pool *pgxpool.Pool) *MemberStore {
	if pool == nil {
		panic("pg: pgxpool.Pool is required")
	}
	return &MemberStore{pool: pool}
}

// Add inserts one membership row.
func (s *MemberStore) Add(ctx context.Context, member *Member) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO org_members (org_id, user_id, role, created_at) VALUES ($1, $2, $3, $4)`,
		member.OrgID, member.UserID, member.Role, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add member %s to org %s: %w", member.UserID, member.OrgID, err)
	}
	return nil
}

// Remove deletes one membership row.
func (s *MemberStore) Remove(ctx context.Context, orgID, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM org_members WHERE org_id = $1 AND user_id = $2`,
		orgID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove member %s from org %s: %w", userID, orgID, err)
	}
	return nil
}
