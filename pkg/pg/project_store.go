package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Project is a quota-counted resource row.
type Project struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	Name      string
	CreatedAt time.Time
}

// ProjectStore persists projects. Creation is the write step of the
// quota-gated admission protocol, so it must be a single atomic batch.
type ProjectStore struct {
	pool *pgxpool.Pool
}

// NewProjectStore creates a ProjectStore backed by the given pool.
func NewProjectStore(pool *pgxpool.Pool) *ProjectStore {
	if pool == nil {
		panic("pg: pgxpool.Pool is required")
	}
	return &ProjectStore{pool: pool}
}

// Create inserts the project row and its owner membership row in one
// transaction: either both apply or neither does. There is no cross-request
// lock here; the admission gate's pre/post checks bound the race instead.
func (s *ProjectStore) Create(ctx context.Context, project *Project, ownerID uuid.UUID) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO projects (id, org_id, name, created_at) VALUES ($1, $2, $3, $4)`,
			project.ID, project.OrgID, project.Name, project.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert project %s: %w", project.ID, err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO project_members (project_id, user_id, role, created_at) VALUES ($1, $2, 'owner', $3)`,
			project.ID, ownerID, project.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert project owner %s: %w", ownerID, err)
		}

		return nil
	})
}
