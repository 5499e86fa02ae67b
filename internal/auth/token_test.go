package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager(ttl time.Duration) *TokenManager {
	return NewTokenManager("test-secret", ttl, "connext-test", NewMemoryRevocationStore())
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	req := require.New(t)
	m := newTestManager(time.Hour)

	token, err := m.Issue("user-1", "alice@example.com", "alice")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := m.Validate(context.Background(), token)
	req.NoError(err)
	req.Equal("user-1", claims.UserID)
	req.Equal("alice@example.com", claims.Email)
	req.Equal("alice", claims.Username)
}

func TestTokenManager_NeverIssuedTokenFails(t *testing.T) {
	req := require.New(t)
	m := newTestManager(time.Hour)

	_, err := m.Validate(context.Background(), "not-a-token")
	req.ErrorIs(err, ErrInvalidToken)

	// A token signed with a different secret is just as unknown.
	other := NewTokenManager("other-secret", time.Hour, "connext-test", nil)
	token, err := other.Issue("user-1", "a@b.c", "a")
	req.NoError(err)

	_, err = m.Validate(context.Background(), token)
	req.ErrorIs(err, ErrInvalidToken)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	req := require.New(t)
	m := newTestManager(-time.Minute)

	token, err := m.Issue("user-1", "a@b.c", "a")
	req.NoError(err)

	_, err = m.Validate(context.Background(), token)
	req.ErrorIs(err, ErrExpiredToken)
}

func TestTokenManager_RevokedToken(t *testing.T) {
	req := require.New(t)
	m := newTestManager(time.Hour)
	ctx := context.Background()

	token, err := m.Issue("user-1", "a@b.c", "a")
	req.NoError(err)

	req.NoError(m.Revoke(ctx, token))

	_, err = m.Validate(ctx, token)
	req.ErrorIs(err, ErrRevokedToken)
}

func TestTokenManager_RevokeDoesNotAffectOtherTokens(t *testing.T) {
	req := require.New(t)
	m := newTestManager(time.Hour)
	ctx := context.Background()

	first, err := m.Issue("user-1", "a@b.c", "a")
	req.NoError(err)
	second, err := m.Issue("user-1", "a@b.c", "a")
	req.NoError(err)

	req.NoError(m.Revoke(ctx, first))

	// Revocation is per token ID, not per user.
	claims, err := m.Validate(ctx, second)
	req.NoError(err)
	req.Equal("user-1", claims.UserID)
}

func TestMemoryRevocationStore_ExpiryCleanup(t *testing.T) {
	req := require.New(t)
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	req.NoError(store.Revoke(ctx, "tok-1", 10*time.Millisecond))

	revoked, err := store.IsRevoked(ctx, "tok-1")
	req.NoError(err)
	req.True(revoked)

	time.Sleep(20 * time.Millisecond)

	revoked, err = store.IsRevoked(ctx, "tok-1")
	req.NoError(err)
	req.False(revoked)
}

func TestIsPasswordComplex(t *testing.T) {
	req := require.New(t)

	req.True(IsPasswordComplex("Str0ngpass"))
	req.False(IsPasswordComplex("short1A"))
	req.False(IsPasswordComplex("alllowercase1"))
	req.False(IsPasswordComplex("ALLUPPERCASE1"))
	req.False(IsPasswordComplex("NoDigitsHere"))
}
