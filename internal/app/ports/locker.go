package ports

import "context"

// Unlock releases a lock taken by Locker.Lock.
type Unlock func(ctx context.Context) error

type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}
