package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodhub/pkg/auth"
)

func newService(t *testing.T) (*auth.TokenService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return auth.NewTokenService(rdb, auth.Options{
		Secret:     []byte("test-secret"),
		Issuer:     "foodhub",
		Audience:   "api",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
	}), mr
}

func TestIssueAndVerify(t *testing.T) {
	svc, mr := newService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, "user-1", auth.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := svc.VerifyAccess(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UUID)
	assert.Equal(t, auth.RoleCustomer, claims.Role)
	assert.NotEmpty(t, claims.ID)

	stored, err := mr.Get("access:user-1")
	require.NoError(t, err)
	assert.Equal(t, pair.AccessToken, stored)
	assert.True(t, mr.Exists("jti:"+claims.ID))
	assert.True(t, mr.Exists("refresh:user-1"))
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, "user-1", auth.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.VerifyRefresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	_, err = svc.VerifyRefresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestNewLoginSupersedesOldToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "user-1", auth.RoleAdmin)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "user-1", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(ctx, first.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	_, err = svc.VerifyAccess(ctx, second.AccessToken)
	assert.NoError(t, err)
}

func TestMissingJTIIsRejected(t *testing.T) {
	svc, mr := newService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, "user-1", auth.RoleCustomer)
	require.NoError(t, err)
	claims, err := svc.VerifyAccess(ctx, pair.AccessToken)
	require.NoError(t, err)

	mr.Del("jti:" + claims.ID)

	_, err = svc.VerifyAccess(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenReplayed)
}

func TestRevoke(t *testing.T) {
	svc, mr := newService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, "user-1", auth.RoleCustomer)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, "user-1"))

	_, err = svc.VerifyAccess(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	_, err = svc.VerifyRefresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	assert.Empty(t, mr.Keys(), "revoke should remove every session key")
}

func TestRejectsForeignSignature(t *testing.T) {
	svc, mr := newService(t)
	ctx := context.Background()

	other := auth.NewTokenService(redis.NewClient(&redis.Options{Addr: mr.Addr()}), auth.Options{
		Secret: []byte("another-secret"), Issuer: "foodhub", Audience: "api",
		AccessTTL: time.Minute, RefreshTTL: time.Minute,
	})
	forged, err := other.Issue(ctx, "user-1", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(ctx, forged.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	_, err = svc.VerifyAccess(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestNilRedisReportsUnavailable(t *testing.T) {
	var rdb *redis.Client
	svc := auth.NewTokenService(rdb, auth.Options{Secret: []byte("x"), AccessTTL: time.Minute, RefreshTTL: time.Minute})

	_, err := svc.Issue(context.Background(), "user-1", auth.RoleCustomer)
	assert.ErrorIs(t, err, auth.ErrNoSessions)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(hash, "s3cret!"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}
