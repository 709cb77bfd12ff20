package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCodeRegistry backs reset codes with a TTL-indexed key per {email,code}
// pair so the ephemeral, self-deleting contract survives process restarts and
// holds across multiple server instances.
type RedisCodeRegistry struct {
	client *redis.Client
	ttl    time.Duration

	generate func() (string, error)
}

var _ CodeRegistry = (*RedisCodeRegistry)(nil)

// NewRedisCodeRegistry creates a Redis-backed registry.
func NewRedisCodeRegistry(client *redis.Client, ttl time.Duration) *RedisCodeRegistry {
	return &RedisCodeRegistry{
		client:   client,
		ttl:      ttl,
		generate: GenerateCode,
	}
}

func resetCodeKey(email, code string) string {
	return fmt.Sprintf("reset_code:%s:%s", email, code)
}

// Issue implements CodeRegistry.
func (r *RedisCodeRegistry) Issue(ctx context.Context, email string) (string, error) {
	code, err := r.generate()
	if err != nil {
		return "", err
	}

	if err := r.client.Set(ctx, resetCodeKey(email, code), "1", r.ttl).Err(); err != nil {
		return "", err
	}

	return code, nil
}

// Consume implements CodeRegistry. GETDEL keeps lookup and removal atomic so
// a code cannot be redeemed twice by racing requests.
func (r *RedisCodeRegistry) Consume(ctx context.Context, email, code string) (bool, error) {
	res, err := r.client.GetDel(ctx, resetCodeKey(email, code)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res != "", nil
}
