// Package restaurant defines the restaurant entity.
package restaurant

import (
	"fmt"
	"strings"

	"github.com/dishscout/dishscout/internal/domain/geo"
)

// Restaurant is a place serving candidate dishes.
type Restaurant struct {
	id       string
	name     string
	location geo.Point
	cuisine  string
	rating   float64
	address  string
}

// New validates and creates a restaurant.
func New(id, name string, location geo.Point, cuisine string, rating float64, address string) (Restaurant, error) {
	if strings.TrimSpace(id) == "" {
		return Restaurant{}, fmt.Errorf("restaurant id is required")
	}
	if strings.TrimSpace(name) == "" {
		return Restaurant{}, fmt.Errorf("restaurant name is required")
	}
	if rating < 0 || rating > 5 {
		return Restaurant{}, fmt.Errorf("rating must be between 0 and 5, got %v", rating)
	}
	return Restaurant{
		id:       strings.TrimSpace(id),
		name:     strings.TrimSpace(name),
		location: location,
		cuisine:  cuisine,
		rating:   rating,
		address:  address,
	}, nil
}

// Reconstruct hydrates a restaurant from the store without re-validation.
func Reconstruct(id, name string, location geo.Point, cuisine string, rating float64, address string) Restaurant {
	return Restaurant{id: id, name: name, location: location, cuisine: cuisine, rating: rating, address: address}
}

// ID returns the restaurant identifier.
func (r *Restaurant) ID() string { return r.id }

// Name returns the restaurant name.
func (r *Restaurant) Name() string { return r.name }

// Location returns the restaurant coordinates.
func (r *Restaurant) Location() geo.Point { return r.location }

// Cuisine returns the cuisine type.
func (r *Restaurant) Cuisine() string { return r.cuisine }

// Rating returns the aggregate rating in [0,5].
func (r *Restaurant) Rating() float64 { return r.rating }

// Address returns the street address.
func (r *Restaurant) Address() string { return r.address }
