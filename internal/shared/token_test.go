package shared_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/furniq/furniq-admin/internal/shared"
)

func newTokenManager(t *testing.T) (*shared.TokenManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewTokenManager(client, "test_token", time.Hour), mr
}

func TestIssueAndResolve(t *testing.T) {
	tm, _ := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tm.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestResolveUnknownToken(t *testing.T) {
	tm, _ := newTokenManager(t)

	_, err := tm.Resolve(context.Background(), "missing")
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = tm.Resolve(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestResolveRefreshesTTL(t *testing.T) {
	tm, mr := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(30 * time.Minute)

	_, err = tm.Resolve(ctx, token)
	require.NoError(t, err)

	// The resolve above reset the clock; half the original TTL later the
	// token must still be alive.
	mr.FastForward(45 * time.Minute)
	userID, err := tm.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)
}

func TestRevoke(t *testing.T) {
	tm, _ := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, 9)
	require.NoError(t, err)

	require.NoError(t, tm.Revoke(ctx, token))
	_, err = tm.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	require.NoError(t, tm.Revoke(ctx, ""))
}

func TestTokenExpires(t *testing.T) {
	tm, mr := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, 3)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = tm.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}
