// Package restaurant handles restaurant and menu CRUD.
package restaurant

import (
	"context"
	"fmt"

	"github.com/dishscout/dishscout/internal/domain"
	domdish "github.com/dishscout/dishscout/internal/domain/dish"
	"github.com/dishscout/dishscout/internal/domain/geo"
	domrest "github.com/dishscout/dishscout/internal/domain/restaurant"
)

// UpsertInput carries the client-supplied restaurant fields.
type UpsertInput struct {
	Name      string
	Latitude  float64
	Longitude float64
	Cuisine   string
	Rating    float64
	Address   string
}

// DishInput carries the client-supplied dish fields.
type DishInput struct {
	Name        string
	Ingredients []string
	Description string
	Price       *float64
}

// Service handles restaurant and menu CRUD.
type Service struct {
	repo   Repository
	dishes DishRepository
}

// New creates a restaurant service.
func New(repo Repository, dishes DishRepository) *Service {
	return &Service{repo: repo, dishes: dishes}
}

// Upsert validates and stores a restaurant under the given id.
// Returns true when the restaurant was created rather than replaced.
func (s *Service) Upsert(ctx context.Context, id string, in UpsertInput) (bool, error) {
	loc, err := geo.New(in.Latitude, in.Longitude)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	r, err := domrest.New(id, in.Name, loc, in.Cuisine, in.Rating, in.Address)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return s.repo.Upsert(ctx, &r)
}

// Get returns a restaurant by id.
func (s *Service) Get(ctx context.Context, id string) (domrest.Restaurant, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes a restaurant. Menu entries stay behind until
// overwritten; they drop out of match results with the restaurant gone.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all restaurants.
func (s *Service) List(ctx context.Context) ([]domrest.Restaurant, error) {
	return s.repo.List(ctx)
}

// UpsertDish validates and stores a dish on an existing restaurant's
// menu. Returns true when the dish was created rather than replaced.
func (s *Service) UpsertDish(ctx context.Context, restaurantID, dishID string, in DishInput) (bool, error) {
	if _, err := s.repo.Get(ctx, restaurantID); err != nil {
		return false, err
	}

	v, err := domdish.New(in.Name, in.Ingredients, in.Description, in.Price)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if in.Price != nil && *in.Price < 0 {
		return false, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}

	d := domdish.Reconstruct(dishID, v.Name(), v.Ingredients(), v.Description(), in.Price, restaurantID)
	return s.dishes.Upsert(ctx, &d)
}

// DeleteDish removes a dish from a restaurant's menu.
func (s *Service) DeleteDish(ctx context.Context, restaurantID, dishID string) error {
	if _, err := s.repo.Get(ctx, restaurantID); err != nil {
		return err
	}
	return s.dishes.Delete(ctx, restaurantID, dishID)
}

// ListDishes returns a restaurant's menu.
func (s *Service) ListDishes(ctx context.Context, restaurantID string) ([]domdish.Descriptor, error) {
	if _, err := s.repo.Get(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.dishes.ListByRestaurant(ctx, restaurantID)
}
