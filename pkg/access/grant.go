package access

import (
	"time"

	"github.com/google/uuid"
)

// GrantType identifies the kind of manually or promotionally issued access
// window. Each type maps to a synthetic plan in the catalog.
type GrantType string

const (
	GrantTypeTrial         GrantType = "trial"
	GrantTypeSingleProject GrantType = "single_project"
)

// Valid reports whether the grant type is known.
func (t GrantType) Valid() bool {
	switch t {
	case GrantTypeTrial, GrantTypeSingleProject:
		return true
	}
	return false
}

// precedence orders grant types when an org holds several active grants.
// Higher wins: a trial outranks a single-project allowance.
func (t GrantType) precedence() int {
	switch t {
	case GrantTypeTrial:
		return 2
	case GrantTypeSingleProject:
		return 1
	}
	return 0
}

// Grant is one time-bounded access allowance, independent of recurring
// billing. Rows are never deleted; revocation sets RevokedAt.
//
// StartsAt and ExpiresAt are epoch seconds, same representation as
// Subscription periods.
type Grant struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	Type      GrantType
	StartsAt  int64
	ExpiresAt int64
	Metadata  map[string]string
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked reports whether the grant has been administratively revoked.
func (g *Grant) IsRevoked() bool {
	return g != nil && g.RevokedAt != nil
}

// IsActiveAt reports whether the grant is access-granting at the given
// instant: not revoked and startsAt <= now < expiresAt.
func (g *Grant) IsActiveAt(now int64) bool {
	if g == nil || g.RevokedAt != nil {
		return false
	}
	return g.StartsAt <= now && now < g.ExpiresAt
}

// IsExpiredAt reports whether the grant ran out naturally: not revoked and
// expiresAt <= now. Revoked grants are neither active nor expired.
func (g *Grant) IsExpiredAt(now int64) bool {
	if g == nil || g.RevokedAt != nil {
		return false
	}
	return g.ExpiresAt <= now
}

// outranks reports whether g wins over other under grant precedence:
// higher type precedence first, later expiry as tie-break.
func (g *Grant) outranks(other *Grant) bool {
	if other == nil {
		return true
	}
	if g.Type.precedence() != other.Type.precedence() {
		return g.Type.precedence() > other.Type.precedence()
	}
	return g.ExpiresAt > other.ExpiresAt
}

// summary projects the row into the shape exposed on ResolvedAccess.
func (g *Grant) summary() *GrantSummary {
	if g == nil {
		return nil
	}
	return &GrantSummary{
		ID:        g.ID,
		Type:      g.Type,
		StartsAt:  g.StartsAt,
		ExpiresAt: g.ExpiresAt,
	}
}
