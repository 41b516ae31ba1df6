// Package auth holds the bearer credential obtained from the remote auth
// endpoints. It does not issue or refresh tokens.
package auth

import (
	"sync"
	"time"

	"github.com/ikram98ai/docgram/pkg/utils"
)

type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// AccessToken implements apiclient.TokenSource.
func (s *TokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Expired reports whether the held token carries an exp claim in the past.
// A malformed token or one without exp counts as expired; an absent token
// does too.
func (s *TokenStore) Expired() bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return true
	}

	claims, err := utils.DecodeUnverifiedJWT(token)
	if err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return time.Now().After(exp.Time)
}
