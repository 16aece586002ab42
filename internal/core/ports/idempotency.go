package ports

import "context"

// IdempotencyStore remembers which account an Idempotency-Key created.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (accountID int64, found bool, err error)
	Remember(ctx context.Context, key string, accountID int64) error
}
