package usage

import "context"

// CounterReader reads request counter values by key.
type CounterReader interface {
	Get(ctx context.Context, key string) (int64, error)
}
