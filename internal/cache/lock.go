package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrLocked is returned by TryLock when the lock is already held.
var ErrLocked = errors.New("lock is already held")

const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// TryLock acquires the lock named key with SET NX EX. The returned unlock
// func releases it only while this holder's token is still stored.
func TryLock(ctx context.Context, r *Redis, key string, ttl time.Duration) (unlock func(), err error) {
	k := r.key("lock:" + key)
	token := uuid.NewString()

	acquired, err := r.client.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("cache lock %s: %w", key, err)
	}
	if !acquired {
		return nil, ErrLocked
	}
	return func() {
		// Background context: release even if the caller's ctx is done.
		_ = r.client.Eval(context.Background(), unlockScript, []string{k}, token).Err()
	}, nil
}
