package server

import (
	"sync"
	"time"

	"github.com/agent-call/console/internal/config"
)

// TokenStore issues and validates guest tokens. Expired tokens are pruned
// lazily on the next Issue.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints a fresh token valid for the store's TTL.
func (ts *TokenStore) Issue() (string, error) {
	tok, err := config.GenerateToken()
	if err != nil {
		return "", err
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.prune()
	ts.tokens[tok] = ts.now().Add(ts.ttl)
	return tok, nil
}

// Validate reports whether the token was issued and has not expired.
func (ts *TokenStore) Validate(tok string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	exp, ok := ts.tokens[tok]
	if !ok {
		return false
	}
	if ts.now().After(exp) {
		delete(ts.tokens, tok)
		return false
	}
	return true
}

func (ts *TokenStore) prune() {
	now := ts.now()
	for tok, exp := range ts.tokens {
		if now.After(exp) {
			delete(ts.tokens, tok)
		}
	}
}
