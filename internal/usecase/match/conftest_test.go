package match

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/domain/dish"
	"github.com/dishscout/dishscout/internal/domain/geo"
	"github.com/dishscout/dishscout/internal/domain/profile"
	"github.com/dishscout/dishscout/internal/domain/restaurant"
)

// mockRestaurantLister implements RestaurantLister for tests.
type mockRestaurantLister struct {
	listNearbyFn func(ctx context.Context, origin geo.Point, radiusKm float64) ([]restaurant.Restaurant, error)
}

func (m *mockRestaurantLister) ListNearby(
	ctx context.Context, origin geo.Point, radiusKm float64,
) ([]restaurant.Restaurant, error) {
	if m.listNearbyFn != nil {
		return m.listNearbyFn(ctx, origin, radiusKm)
	}
	return nil, nil
}

// mockDishLister implements DishLister for tests.
type mockDishLister struct {
	listFn  func(ctx context.Context, restaurantIDs []string) ([]dish.Descriptor, error)
	gotIDs  []string
	fetches int
}

func (m *mockDishLister) ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]dish.Descriptor, error) {
	m.fetches++
	m.gotIDs = restaurantIDs
	if m.listFn != nil {
		return m.listFn(ctx, restaurantIDs)
	}
	return nil, nil
}

// mockHistoryRecorder implements HistoryRecorder for tests.
type mockHistoryRecorder struct {
	recordFn func(ctx context.Context, userID string, e profile.HistoryEntry) error
	entries  []profile.HistoryEntry
	users    []string
}

func (m *mockHistoryRecorder) Record(ctx context.Context, userID string, e profile.HistoryEntry) error {
	m.users = append(m.users, userID)
	m.entries = append(m.entries, e)
	if m.recordFn != nil {
		return m.recordFn(ctx, userID, e)
	}
	return nil
}

// mockCounter implements UsageCounter for tests.
type mockCounter struct {
	keys []string
}

func (m *mockCounter) IncrBy(_ context.Context, key string, _ int64) error {
	m.keys = append(m.keys, key)
	return nil
}

func newTestService(
	t *testing.T, restaurants *mockRestaurantLister, dishes *mockDishLister,
) (*Service, *mockHistoryRecorder, *mockCounter) {
	t.Helper()
	history := &mockHistoryRecorder{}
	counter := &mockCounter{}
	svc := New(restaurants, dishes, history, counter, 10, 100, 30, zap.NewNop())
	return svc, history, counter
}

func testRestaurantAt(t *testing.T, id string, lat, lon float64) restaurant.Restaurant {
	t.Helper()
	loc, err := geo.New(lat, lon)
	if err != nil {
		t.Fatalf("bad test coordinates: %v", err)
	}
	return restaurant.Reconstruct(id, "Place "+id, loc, "italian", 4.2, "somewhere")
}

func candidateDish(id, restaurantID, name string, ingredients []string, price *float64) dish.Descriptor {
	return dish.Reconstruct(id, name, ingredients, "", price, restaurantID)
}

func f64(v float64) *float64 { return &v }
