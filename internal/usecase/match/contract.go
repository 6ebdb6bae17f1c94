package match

import (
	"context"

	"github.com/dishscout/dishscout/internal/domain/dish"
	"github.com/dishscout/dishscout/internal/domain/geo"
	"github.com/dishscout/dishscout/internal/domain/profile"
	"github.com/dishscout/dishscout/internal/domain/restaurant"
)

// RestaurantLister returns restaurants near an origin. Implementations
// may over-approximate the radius; the service applies the exact
// distance filter.
type RestaurantLister interface {
	ListNearby(ctx context.Context, origin geo.Point, radiusKm float64) ([]restaurant.Restaurant, error)
}

// DishLister loads the menus of the given restaurants, preserving the
// order of restaurantIDs.
type DishLister interface {
	ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]dish.Descriptor, error)
}

// HistoryRecorder saves a search to a user's history.
type HistoryRecorder interface {
	Record(ctx context.Context, userID string, e profile.HistoryEntry) error
}

// UsageCounter increments a request counter key.
type UsageCounter interface {
	IncrBy(ctx context.Context, key string, val int64) error
}
