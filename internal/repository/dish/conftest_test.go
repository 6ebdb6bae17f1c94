package dish

import (
	"context"
	"testing"

	domdish "github.com/dishscout/dishscout/internal/domain/dish"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	saddFn         func(ctx context.Context, key string, members ...string) error
	sremFn         func(ctx context.Context, key string, members ...string) error
	smembersFn     func(ctx context.Context, key string) ([]string, error)
	sismemberFn    func(ctx context.Context, key, member string) (bool, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) error {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SRem(ctx context.Context, key string, members ...string) error {
	if m.sremFn != nil {
		return m.sremFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	if m.sismemberFn != nil {
		return m.sismemberFn(ctx, key, member)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}

func testDish(t *testing.T, restaurantID, id string) domdish.Descriptor {
	t.Helper()
	price := 12.5
	return domdish.Reconstruct(
		id, "Margherita Pizza",
		[]string{"tomato", "mozzarella", "basil"},
		"Classic Neapolitan pizza", &price, restaurantID,
	)
}

func testDishHash(restaurantID, id string) map[string]string {
	d := domdish.Reconstruct(
		id, "Margherita Pizza",
		[]string{"tomato", "mozzarella", "basil"},
		"Classic Neapolitan pizza", nil, restaurantID,
	)
	m, _ := dishToHash(&d)
	return m
}
