package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/accesskit/pkg/access"
)

// GrantStore implements access.GrantStore over pgx. Grants are never
// physically deleted; revocation and expiry both leave the row in place.
type GrantStore struct {
	pool *pgxpool.Pool
}

// NewGrantStore creates a GrantStore backed by the given pool.
func NewGrantStore(pool *pgxpool.Pool) *GrantStore {
	if pool == nil {
		panic("pg: pgxpool.Pool is required")
	}
	return &GrantStore{pool: pool}
}

const grantColumns = `id, org_id, grant_type, starts_at, expires_at, metadata, created_at, revoked_at`

// Get retrieves a grant by ID.
func (s *GrantStore) Get(ctx context.Context, id uuid.UUID) (*access.Grant, error) {
	query := fmt.Sprintf(`SELECT %s FROM grants WHERE id = $1`, grantColumns)

	row := s.pool.QueryRow(ctx, query, id)
	grant, err := scanGrant(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, access.ErrGrantNotFound
		}
		return nil, fmt.Errorf("get grant %s: %w", id, err)
	}
	return grant, nil
}

// ListActive returns grants active at the given instant: not revoked,
// started, and not yet expired. The window check lives in SQL so the store
// and the in-process rule cannot drift apart on boundary semantics.
func (s *GrantStore) ListActive(ctx context.Context, orgID uuid.UUID, now int64) ([]access.Grant, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM grants
		WHERE org_id = $1
		  AND revoked_at IS NULL
		  AND starts_at <= $2
		  AND expires_at > $2
		ORDER BY expires_at DESC`, grantColumns)

	return s.listGrants(ctx, query, orgID, now)
}

// ListNonRevoked returns all non-revoked grants for an org regardless of
// their time window.
func (s *GrantStore) ListNonRevoked(ctx context.Context, orgID uuid.UUID) ([]access.Grant, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM grants
		WHERE org_id = $1 AND revoked_at IS NULL
		ORDER BY expires_at DESC`, grantColumns)

	return s.listGrants(ctx, query, orgID)
}

// Create persists a new grant row. The one-trial-per-org invariant is backed
// by a partial unique index; a violation maps to access.ErrTrialGrantExists
// so concurrent issuance loses cleanly.
func (s *GrantStore) Create(ctx context.Context, grant *access.Grant) error {
	const query = `
		INSERT INTO grants (id, org_id, grant_type, starts_at, expires_at, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		grant.ID,
		grant.OrgID,
		string(grant.Type),
		grant.StartsAt,
		grant.ExpiresAt,
		grant.Metadata,
		grant.CreatedAt,
	)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return access.ErrTrialGrantExists
		}
		return fmt.Errorf("create grant %s: %w", grant.ID, err)
	}
	return nil
}

// UpdateExpiry moves a grant's expiry to a new instant.
func (s *GrantStore) UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE grants SET expires_at = $2 WHERE id = $1`, id, expiresAt)
	if err != nil {
		return fmt.Errorf("update grant %s expiry: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return access.ErrGrantNotFound
	}
	return nil
}

// SetRevoked marks a grant revoked.
func (s *GrantStore) SetRevoked(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE grants SET revoked_at = $2 WHERE id = $1`, id, revokedAt)
	if err != nil {
		return fmt.Errorf("revoke grant %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return access.ErrGrantNotFound
	}
	return nil
}

func (s *GrantStore) listGrants(ctx context.Context, query string, args ...any) ([]access.Grant, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var grants []access.Grant
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grant row: %w", err)
		}
		grants = append(grants, *grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grant rows: %w", err)
	}

	return grants, nil
}

func scanGrant(row pgx.Row) (*access.Grant, error) {
	var grant access.Grant
	var grantType string
	if err := row.Scan(
		&grant.ID,
		&grant.OrgID,
		&grantType,
		&grant.StartsAt,
		&grant.ExpiresAt,
		&grant.Metadata,
		&grant.CreatedAt,
		&grant.RevokedAt,
	); err != nil {
		return nil, err
	}
	grant.Type = access.GrantType(grantType)
	return &grant, nil
}
