package access

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GrantService owns the administrative grant lifecycle: issuing, extending,
// and revoking access windows. The resolver only reads grants; all mutation
// goes through here.
type GrantService struct {
	store GrantStore
	now   NowFunc
}

// GrantServiceOption configures a GrantService instance.
type GrantServiceOption func(*GrantService)

// WithGrantClock replaces the wall clock used for timestamps.
func WithGrantClock(now NowFunc) GrantServiceOption {
	return func(s *GrantService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewGrantService creates a GrantService backed by the given store.
// Panics if store is nil to fail fast during initialization.
func NewGrantService(store GrantStore, opts ...GrantServiceOption) *GrantService {
	if store == nil {
		panic("access: GrantStore is required")
	}

	s := &GrantService{
		store: store,
		now:   WallClock,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Issue creates a new grant for an org. The window must be non-empty and at
// most one non-revoked trial grant may exist per org; that invariant is
// enforced here at creation, not by the resolver.
func (s *GrantService) Issue(ctx context.Context, orgID uuid.UUID, grantType GrantType, startsAt, expiresAt int64, metadata map[string]string) (*Grant, error) {
	if !grantType.Valid() {
		return nil, ErrUnknownGrantType
	}
	if expiresAt <= startsAt {
		return nil, ErrInvalidGrantWindow
	}

	if grantType == GrantTypeTrial {
		existing, err := s.store.ListNonRevoked(ctx, orgID)
		if err != nil {
			return nil, err
		}
		for i := range existing {
			if existing[i].Type == GrantTypeTrial {
				return nil, ErrTrialGrantExists
			}
		}
	}

	grant := &Grant{
		ID:        uuid.New(),
		OrgID:     orgID,
		Type:      grantType,
		StartsAt:  startsAt,
		ExpiresAt: expiresAt,
		Metadata:  metadata,
		CreatedAt: time.Unix(s.now(), 0).UTC(),
	}

	if err := s.store.Create(ctx, grant); err != nil {
		return nil, err
	}

	return grant, nil
}

// Extend moves a grant's expiry forward. Shrinking the window is not
// supported; revoke and reissue instead.
func (s *GrantService) Extend(ctx context.Context, grantID uuid.UUID, expiresAt int64) (*Grant, error) {
	grant, err := s.store.Get(ctx, grantID)
	if err != nil {
		return nil, err
	}

	if grant.IsRevoked() {
		return nil, ErrGrantRevoked
	}
	if expiresAt <= grant.ExpiresAt {
		return nil, ErrInvalidGrantWindow
	}

	if err := s.store.UpdateExpiry(ctx, grantID, expiresAt); err != nil {
		return nil, err
	}

	grant.ExpiresAt = expiresAt
	return grant, nil
}

// Revoke marks a grant revoked. Revoking an already revoked grant is an
// error so callers can detect double administration.
func (s *GrantService) Revoke(ctx context.Context, grantID uuid.UUID) error {
	grant, err := s.store.Get(ctx, grantID)
	if err != nil {
		return err
	}

	if grant.IsRevoked() {
		return ErrGrantRevoked
	}

	return s.store.SetRevoked(ctx, grantID, time.Unix(s.now(), 0).UTC())
}
