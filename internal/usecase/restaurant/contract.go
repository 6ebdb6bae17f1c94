package restaurant

import (
	"context"

	domdish "github.com/dishscout/dishscout/internal/domain/dish"
	domrest "github.com/dishscout/dishscout/internal/domain/restaurant"
)

// Repository defines the storage contract for restaurants.
type Repository interface {
	Upsert(ctx context.Context, r *domrest.Restaurant) (bool, error)
	Get(ctx context.Context, id string) (domrest.Restaurant, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domrest.Restaurant, error)
}

// DishRepository defines the storage contract for menu items.
type DishRepository interface {
	Upsert(ctx context.Context, d *domdish.Descriptor) (bool, error)
	Delete(ctx context.Context, restaurantID, dishID string) error
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domdish.Descriptor, error)
}
