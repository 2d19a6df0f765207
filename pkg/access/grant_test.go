package access_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/accesskit/pkg/access"
)

func TestGrant_IsActiveAt(t *testing.T) {
	t.Parallel()

	startsAt := epoch(2024, time.January, 1, 0)
	expiresAt := epoch(2024, time.January, 15, 0)
	revoked := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	t.Run("inside the window", func(t *testing.T) {
		t.Parallel()
		g := &access.Grant{StartsAt: startsAt, ExpiresAt: expiresAt}
		assert.True(t, g.IsActiveAt(epoch(2024, time.January, 10, 0)))
	})

	t.Run("window boundaries", func(t *testing.T) {
		t.Parallel()
		g := &access.Grant{StartsAt: startsAt, ExpiresAt: expiresAt}
		// startsAt is inclusive, expiresAt is exclusive
		assert.True(t, g.IsActiveAt(startsAt))
		assert.True(t, g.IsActiveAt(expiresAt-1))
		assert.False(t, g.IsActiveAt(expiresAt))
		assert.False(t, g.IsActiveAt(startsAt-1))
	})

	t.Run("revoked grant is never active", func(t *testing.T) {
		t.Parallel()
		g := &access.Grant{StartsAt: startsAt, ExpiresAt: expiresAt, RevokedAt: &revoked}
		assert.False(t, g.IsActiveAt(epoch(2024, time.January, 10, 0)))
	})

	t.Run("nil grant", func(t *testing.T) {
		t.Parallel()
		var g *access.Grant
		assert.False(t, g.IsActiveAt(startsAt))
		assert.False(t, g.IsExpiredAt(expiresAt))
	})
}

func TestGrant_IsExpiredAt(t *testing.T) {
	t.Parallel()

	startsAt := epoch(2024, time.January, 1, 0)
	expiresAt := epoch(2024, time.January, 15, 0)
	revoked := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	t.Run("expired once the window closes", func(t *testing.T) {
		t.Parallel()
		g := &access.Grant{StartsAt: startsAt, ExpiresAt: expiresAt}
		assert.False(t, g.IsExpiredAt(expiresAt-1))
		assert.True(t, g.IsExpiredAt(expiresAt))
		assert.True(t, g.IsExpiredAt(expiresAt+86400))
	})

	t.Run("revoked grant is neither active nor expired", func(t *testing.T) {
		t.Parallel()
		g := &access.Grant{StartsAt: startsAt, ExpiresAt: expiresAt, RevokedAt: &revoked}
		assert.False(t, g.IsExpiredAt(expiresAt+1))
		assert.False(t, g.IsActiveAt(startsAt))
	})
}

func TestGrantType_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, access.GrantTypeTrial.Valid())
	assert.True(t, access.GrantTypeSingleProject.Valid())
	assert.False(t, access.GrantType("lifetime").Valid())
	assert.False(t, access.GrantType("").Valid())
}
