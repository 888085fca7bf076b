package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

func TestTokenStoreEmpty(t *testing.T) {
	store := NewTokenStore()

	_, ok := store.Get()
	assert.False(t, ok)
	assert.True(t, store.Expired())
}

func TestTokenStoreKeepsRefreshTokenAcrossGrants(t *testing.T) {
	store := NewTokenStore()

	store.Set(&youtube.Tokens{AccessToken: "at1", RefreshToken: "rt1", Expiry: time.Now().Add(time.Hour)})
	// Refresh responses often omit the refresh token.
	store.Set(&youtube.Tokens{AccessToken: "at2", Expiry: time.Now().Add(time.Hour)})

	tokens, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "at2", tokens.AccessToken)
	assert.Equal(t, "rt1", tokens.RefreshToken)
}

func TestTokenStoreGetReturnsCopy(t *testing.T) {
	store := NewTokenStore()
	store.Set(&youtube.Tokens{AccessToken: "at", RefreshToken: "rt", Expiry: time.Now().Add(time.Hour)})

	tokens, ok := store.Get()
	require.True(t, ok)
	tokens.AccessToken = "mutated"

	again, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "at", again.AccessToken)
}

func TestTokenStoreExpiry(t *testing.T) {
	store := NewTokenStore()

	store.Set(&youtube.Tokens{AccessToken: "at", Expiry: time.Now().Add(-time.Minute)})
	assert.True(t, store.Expired())

	store.Set(&youtube.Tokens{AccessToken: "at", Expiry: time.Now().Add(time.Hour)})
	assert.False(t, store.Expired())

	store.Clear()
	_, ok := store.Get()
	assert.False(t, ok)
}
