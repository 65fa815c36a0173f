package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/model"
)

func TestAdmin_ClaimFirstAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claims := env.verifiedUser(t, "boss@example.com")

	claimable, err := env.admin.Claimable(ctx)
	require.NoError(t, err)
	assert.True(t, claimable)

	session, err := env.admin.ClaimFirstAdmin(ctx, claims)
	require.NoError(t, err)

	reissued, err := env.issuer.VerifySession(session.Token)
	require.NoError(t, err)
	assert.True(t, reissued.IsAdmin)
	assert.Equal(t, claims.Subject, reissued.Subject)

	claimable, err = env.admin.Claimable(ctx)
	require.NoError(t, err)
	assert.False(t, claimable)

	other := env.verifiedUser(t, "late@example.com")
	_, err = env.admin.ClaimFirstAdmin(ctx, other)
	apiErr := requireAPIError(t, err, http.StatusForbidden)
	assert.Equal(t, apierror.MsgAdminExists, apiErr.Message)
}

func TestAdmin_ClaimFirstAdminRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.verifiedUser(t, "alice@example.com")
	bob := env.verifiedUser(t, "bob@example.com")

	callers := []model.SessionClaims{alice, bob}
	errs := make([]error, len(callers))
	var wg sync.WaitGroup
	for i, c := range callers {
		wg.Add(1)
		go func(i int, c model.SessionClaims) {
			defer wg.Done()
			_, errs[i] = env.admin.ClaimFirstAdmin(ctx, c)
		}(i, c)
	}
	wg.Wait()

	var ok, forbidden int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		apiErr, isAPI := apierror.As(err)
		require.True(t, isAPI)
		if apiErr.Status == http.StatusForbidden {
			forbidden++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, forbidden)

	n, err := env.users.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAdmin_SetAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	boss := env.verifiedUser(t, "boss@example.com")
	staff := env.verifiedUser(t, "staff@example.com")
	_, err := env.admin.ClaimFirstAdmin(ctx, boss)
	require.NoError(t, err)

	staffID := uuid.MustParse(staff.Subject)
	bossID := uuid.MustParse(boss.Subject)

	t.Run("non-admin cannot grant", func(t *testing.T) {
		requireAPIError(t, env.admin.SetAdmin(ctx, staff, staffID, true), http.StatusForbidden)
	})

	t.Run("admin cannot demote self", func(t *testing.T) {
		requireAPIError(t, env.admin.SetAdmin(ctx, boss, bossID, false), http.StatusForbidden)
	})

	t.Run("unknown target", func(t *testing.T) {
		requireAPIError(t, env.admin.SetAdmin(ctx, boss, uuid.New(), true), http.StatusNotFound)
	})

	t.Run("admin grants and revokes", func(t *testing.T) {
		require.NoError(t, env.admin.SetAdmin(ctx, boss, staffID, true))
		n, err := env.users.CountAdmins(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.NoError(t, env.admin.SetAdmin(ctx, boss, staffID, false))
		n, err = env.users.CountAdmins(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
