// Package favorites handles a user's saved dishes.
package favorites

import (
	"context"
	"fmt"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/profile"
)

// Repository defines the storage contract for favorites.
type Repository interface {
	Add(ctx context.Context, userID string, f profile.Favorite) (bool, error)
	Remove(ctx context.Context, userID string, f profile.Favorite) (bool, error)
	List(ctx context.Context, userID string) ([]profile.Favorite, error)
}

// Service handles favorite operations.
type Service struct {
	repo Repository
}

// New creates a favorites service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add saves a dish to the user's favorites.
// Returns true when it was not saved before.
func (s *Service) Add(ctx context.Context, userID, restaurantID, dishID string) (bool, error) {
	if err := validateRef(userID, restaurantID, dishID); err != nil {
		return false, err
	}
	return s.repo.Add(ctx, userID, profile.Favorite{RestaurantID: restaurantID, DishID: dishID})
}

// Remove deletes a dish from the user's favorites.
// Returns true when it was present.
func (s *Service) Remove(ctx context.Context, userID, restaurantID, dishID string) (bool, error) {
	if err := validateRef(userID, restaurantID, dishID); err != nil {
		return false, err
	}
	return s.repo.Remove(ctx, userID, profile.Favorite{RestaurantID: restaurantID, DishID: dishID})
}

// List returns the user's favorites.
func (s *Service) List(ctx context.Context, userID string) ([]profile.Favorite, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	return s.repo.List(ctx, userID)
}

func validateRef(userID, restaurantID, dishID string) error {
	if userID == "" || restaurantID == "" || dishID == "" {
		return fmt.Errorf("%w: user, restaurant and dish ids are required", domain.ErrInvalidInput)
	}
	return nil
}
