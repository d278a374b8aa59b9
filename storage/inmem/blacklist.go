package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/college/core/user"
)

// TokenBlacklist is the process-local fallback used when redis is not configured.
type TokenBlacklist struct {
	mutex   sync.RWMutex
	revoked map[string]time.Time
	nowFunc func() time.Time
}

var _ user.TokenBlacklist = (*TokenBlacklist)(nil)

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{
		revoked: make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

func (bl *TokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	bl.mutex.Lock()
	defer bl.mutex.Unlock()

	now := bl.nowFunc()
	for id, exp := range bl.revoked {
		if !exp.After(now) {
			delete(bl.revoked, id)
		}
	}
	bl.revoked[jti] = now.Add(ttl)
	return nil
}

func (bl *TokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	bl.mutex.RLock()
	defer bl.mutex.RUnlock()

	exp, ok := bl.revoked[jti]
	return ok && exp.After(bl.nowFunc()), nil
}
