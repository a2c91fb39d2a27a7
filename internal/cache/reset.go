package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitlog/fitlog/internal/auth"
)

const (
	// resetCodePrefix is the Redis key prefix for pending reset challenges.
	resetCodePrefix = "reset:code:"
	// MaxResetAttempts is how many wrong codes burn a pending challenge.
	MaxResetAttempts = 5
)

// ErrNoResetChallenge is returned when no challenge is pending for an email.
var ErrNoResetChallenge = errors.New("no pending reset challenge")

// consumeResetScript checks a code hash and deletes the challenge on
// success or once too many wrong codes were tried.
// Returns 1 on match, 0 on mismatch, -1 when nothing is pending.
var consumeResetScript = redis.NewScript(`
	local key = KEYS[1]
	local code = redis.call('HGET', key, 'code')
	if not code then
		return -1
	end
	if code == ARGV[1] then
		redis.call('DEL', key)
		return 1
	end
	local attempts = redis.call('HINCRBY', key, 'attempts', 1)
	if attempts >= tonumber(ARGV[2]) then
		redis.call('DEL', key)
	end
	return 0
`)

// SetResetCode stores a reset code for email, replacing any pending one.
// Only a hash of the code is stored.
func (c *Cache) SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	key := resetCodePrefix + auth.QuickHash(email)

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "code", auth.QuickHash(code), "attempts", 0)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return nil
}

// ConsumeResetCode reports whether code matches the pending challenge for
// email. A matching code is deleted so it cannot be used twice.
func (c *Cache) ConsumeResetCode(ctx context.Context, email, code string) (bool, error) {
	key := resetCodePrefix + auth.QuickHash(email)

	res, err := consumeResetScript.Run(ctx, c.client,
		[]string{key},
		auth.QuickHash(code), MaxResetAttempts,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to check reset code: %w", err)
	}

	switch res {
	case 1:
		return true, nil
	case -1:
		return false, ErrNoResetChallenge
	default:
		return false, nil
	}
}
