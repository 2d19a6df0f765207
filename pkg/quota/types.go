package quota

import (
	"context"

	"github.com/google/uuid"
)

// CounterFunc returns the current usage of a quota-counted resource for an
// org. Must be fast: it runs on every admission attempt.
type CounterFunc func(ctx context.Context, orgID uuid.UUID) (int64, error)

// WriteFunc executes the resource-creating writes as one atomic batch.
// Either all of its statements apply or none do; there is no external lock
// preventing two batches from interleaving.
type WriteFunc func(ctx context.Context) error

// Usage holds the derived resource counts for an org. Counts are computed
// from the owning tables on demand, never stored.
type Usage struct {
	Projects      int64
	Collaborators int64
}

// UsageSource counts quota-counted resources. Owner memberships never count
// against the collaborator quota; implementations exclude them in the query.
type UsageSource interface {
	CountProjects(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountCollaborators(ctx context.Context, orgID uuid.UUID) (int64, error)
}
