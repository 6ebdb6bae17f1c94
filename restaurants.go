package dishscout

import (
	"context"
	"fmt"

	domdish "github.com/dishscout/dishscout/internal/domain/dish"
	domrest "github.com/dishscout/dishscout/internal/domain/restaurant"
	restaurantuc "github.com/dishscout/dishscout/internal/usecase/restaurant"
)

// RestaurantInfo is the public form of a restaurant.
type RestaurantInfo struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	Cuisine   string
	Rating    float64
	Address   string
}

// RestaurantService manages restaurants and their menus.
type RestaurantService struct {
	svc *restaurantuc.Service
}

// Upsert stores a restaurant under the given id.
// Returns true when it was created rather than replaced.
func (s *RestaurantService) Upsert(ctx context.Context, id string, info RestaurantInfo) (bool, error) {
	created, err := s.svc.Upsert(ctx, id, restaurantuc.UpsertInput{
		Name:      info.Name,
		Latitude:  info.Latitude,
		Longitude: info.Longitude,
		Cuisine:   info.Cuisine,
		Rating:    info.Rating,
		Address:   info.Address,
	})
	if err != nil {
		return false, fmt.Errorf("upsert restaurant: %w", err)
	}
	return created, nil
}

// Get returns a restaurant by id.
func (s *RestaurantService) Get(ctx context.Context, id string) (RestaurantInfo, error) {
	r, err := s.svc.Get(ctx, id)
	if err != nil {
		return RestaurantInfo{}, fmt.Errorf("get restaurant: %w", err)
	}
	return fromRestaurant(&r), nil
}

// Delete removes a restaurant.
func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return nil
}

// List returns all restaurants.
func (s *RestaurantService) List(ctx context.Context) ([]RestaurantInfo, error) {
	rests, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	out := make([]RestaurantInfo, len(rests))
	for i := range rests {
		out[i] = fromRestaurant(&rests[i])
	}
	return out, nil
}

// UpsertDish stores a dish on a restaurant's menu.
// Returns true when it was created rather than replaced.
func (s *RestaurantService) UpsertDish(
	ctx context.Context, restaurantID, dishID string, info DishInfo,
) (bool, error) {
	created, err := s.svc.UpsertDish(ctx, restaurantID, dishID, restaurantuc.DishInput{
		Name:        info.Name,
		Ingredients: info.Ingredients,
		Description: info.Description,
		Price:       info.Price,
	})
	if err != nil {
		return false, fmt.Errorf("upsert dish: %w", err)
	}
	return created, nil
}

// DeleteDish removes a dish from a restaurant's menu.
func (s *RestaurantService) DeleteDish(ctx context.Context, restaurantID, dishID string) error {
	if err := s.svc.DeleteDish(ctx, restaurantID, dishID); err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	return nil
}

// Dishes returns a restaurant's menu.
func (s *RestaurantService) Dishes(ctx context.Context, restaurantID string) ([]DishInfo, error) {
	dishes, err := s.svc.ListDishes(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	out := make([]DishInfo, len(dishes))
	for i := range dishes {
		out[i] = fromStoredDish(&dishes[i])
	}
	return out, nil
}

func fromRestaurant(r *domrest.Restaurant) RestaurantInfo {
	return RestaurantInfo{
		ID:        r.ID(),
		Name:      r.Name(),
		Latitude:  r.Location().Lat(),
		Longitude: r.Location().Lon(),
		Cuisine:   r.Cuisine(),
		Rating:    r.Rating(),
		Address:   r.Address(),
	}
}

func fromStoredDish(d *domdish.Descriptor) DishInfo {
	return DishInfo{
		ID:          d.ID(),
		Name:        d.Name(),
		Ingredients: d.Ingredients(),
		Description: d.Description(),
		Price:       d.Price(),
	}
}
