// Package dish defines the dish descriptor value object used for matching.
package dish

import (
	"fmt"
	"strings"
)

// Descriptor holds a dish's identifying attributes. A "target" descriptor
// (user query, AI-derived) carries no id or restaurant id; a candidate
// descriptor loaded from the store carries both.
type Descriptor struct {
	id           string
	name         string
	ingredients  []string
	description  string
	price        *float64
	restaurantID string
}

// New creates a target descriptor. Name is required.
func New(name string, ingredients []string, description string, price *float64) (Descriptor, error) {
	if strings.TrimSpace(name) == "" {
		return Descriptor{}, fmt.Errorf("dish name is required")
	}
	return Descriptor{
		name:        strings.TrimSpace(name),
		ingredients: normalizeIngredients(ingredients),
		description: strings.TrimSpace(description),
		price:       price,
	}, nil
}

// Reconstruct hydrates a candidate descriptor from the store without re-validation.
func Reconstruct(
	id, name string, ingredients []string, description string,
	price *float64, restaurantID string,
) Descriptor {
	return Descriptor{
		id:           id,
		name:         strings.TrimSpace(name),
		ingredients:  normalizeIngredients(ingredients),
		description:  strings.TrimSpace(description),
		price:        price,
		restaurantID: restaurantID,
	}
}

// ID returns the dish identifier (empty for targets).
func (d *Descriptor) ID() string { return d.id }

// Name returns the dish name.
func (d *Descriptor) Name() string { return d.name }

// Ingredients returns the normalized ingredient list. Order is not significant.
func (d *Descriptor) Ingredients() []string { return d.ingredients }

// Description returns the free-text description (may be empty).
func (d *Descriptor) Description() string { return d.description }

// Price returns the price, or nil when unknown.
func (d *Descriptor) Price() *float64 { return d.price }

// RestaurantID returns the owning restaurant id (empty for targets).
func (d *Descriptor) RestaurantID() string { return d.restaurantID }

// normalizeIngredients lowercases and trims each entry, dropping blanks.
func normalizeIngredients(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, ing := range in {
		ing = strings.ToLower(strings.TrimSpace(ing))
		if ing != "" {
			out = append(out, ing)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
