package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"molttactics/internal/app/ports"
)

const (
	DefaultTTL           = 30 * time.Second
	DefaultRetryInterval = 50 * time.Millisecond
	keyPrefix            = "molt:lock:"
)

var ErrLockNotHeld = errors.New("lock not held")

// release deletes the key only while it still holds our token.
var release = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// Locker is a ports.Locker shared by every process using the same Redis.
// A holder that dies keeps the lock for at most TTL.
type Locker struct {
	client        *redis.Client
	TTL           time.Duration
	RetryInterval time.Duration
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client, TTL: DefaultTTL, RetryInterval: DefaultRetryInterval}
}

// NewClient parses a redis:// URL and checks the server is reachable.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Lock polls SET NX until it wins or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (ports.Unlock, error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.TTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ports.ErrLockTimeout
			}
			return nil, err
		}
		if ok {
			return func(ctx context.Context) error {
				n, err := release.Run(ctx, l.client, []string{redisKey}, token).Int()
				if err != nil {
					return err
				}
				if n == 0 {
					return ErrLockNotHeld
				}
				return nil
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ports.ErrLockTimeout
		case <-time.After(l.RetryInterval):
		}
	}
}

var _ ports.Locker = (*Locker)(nil)
