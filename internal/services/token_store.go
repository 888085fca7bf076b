package services

import (
	"sync"
	"time"

	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// TokenStore holds the host OAuth tokens for the single configured
// channel. Tokens are written by the OAuth callback and read by uploads,
// sync and playlist calls. They live in memory only, so a restart
// requires re-authorization.
type TokenStore struct {
	mu     sync.RWMutex
	tokens *youtube.Tokens
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Set replaces the stored tokens. A refresh token from a previous grant
// is kept when the new grant omits one.
func (s *TokenStore) Set(tokens *youtube.Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokens != nil && tokens.RefreshToken == "" && s.tokens != nil {
		tokens.RefreshToken = s.tokens.RefreshToken
	}
	s.tokens = tokens
}

// Get returns a copy of the stored tokens, or false when none are set.
func (s *TokenStore) Get() (*youtube.Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return nil, false
	}
	copied := *s.tokens
	return &copied, true
}

// Expired reports whether the stored access token is past its expiry.
// Missing tokens count as expired.
func (s *TokenStore) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return true
	}
	return !s.tokens.Expiry.IsZero() && time.Now().After(s.tokens.Expiry)
}

// Clear drops the stored tokens.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = nil
}
