package analysiscache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/db"
	"github.com/dishscout/dishscout/internal/domain/dish"
)

type mockAnalyzer struct {
	result     dish.Descriptor
	err        error
	textCalls  int
	imageCalls int
}

func (m *mockAnalyzer) AnalyzeText(_ context.Context, _ string) (dish.Descriptor, error) {
	m.textCalls++
	return m.result, m.err
}

func (m *mockAnalyzer) AnalyzeImage(_ context.Context, _ []byte, _ string) (dish.Descriptor, error) {
	m.imageCalls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedAnalyzer(t *testing.T, inner *mockAnalyzer) (*CachedAnalyzer, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ca := New(inner, ms, time.Hour, nil, zap.NewNop())
	return ca, ms
}

func testDescriptor(t *testing.T) dish.Descriptor {
	t.Helper()
	d, err := dish.New("Margherita Pizza", []string{"tomato", "mozzarella"}, "Neapolitan classic", nil)
	if err != nil {
		t.Fatalf("bad test descriptor: %v", err)
	}
	return d
}
