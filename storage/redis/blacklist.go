package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/user"
)

const blacklistPrefix = "token:blacklist:"

// Open connects to redis and pings it once.
func Open(ctx context.Context, conf core.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

type TokenBlacklist struct {
	client *goredis.Client
}

var _ user.TokenBlacklist = (*TokenBlacklist)(nil)

func NewTokenBlacklist(client *goredis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke keeps jti for ttl, which should match the token's remaining lifetime.
func (bl *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return errors.Wrap(bl.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(), "revoking token")
}

func (bl *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := bl.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, errors.Wrap(err, "checking token")
	}
	return n > 0, nil
}

// PingContext reports whether the redis server answers.
func (bl *TokenBlacklist) PingContext(ctx context.Context) error {
	return bl.client.Ping(ctx).Err()
}
