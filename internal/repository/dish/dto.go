package dish

import (
	"encoding/json"
	"fmt"
	"strconv"

	domdish "github.com/dishscout/dishscout/internal/domain/dish"
)

// dishToHash converts a domain Descriptor to a map for HSET.
func dishToHash(d *domdish.Descriptor) (map[string]string, error) {
	ingredientsJSON, err := json.Marshal(d.Ingredients())
	if err != nil {
		return nil, fmt.Errorf("marshal ingredients: %w", err)
	}

	m := map[string]string{
		"id":               d.ID(),
		"name":             d.Name(),
		"ingredients_json": string(ingredientsJSON),
		"description":      d.Description(),
		"restaurant_id":    d.RestaurantID(),
	}
	if d.Price() != nil {
		m["price"] = strconv.FormatFloat(*d.Price(), 'f', -1, 64)
	}
	return m, nil
}

// dishFromHash hydrates a domain Descriptor from an HGETALL result map.
func dishFromHash(m map[string]string) (domdish.Descriptor, error) {
	var ingredients []string
	if m["ingredients_json"] != "" {
		if err := json.Unmarshal([]byte(m["ingredients_json"]), &ingredients); err != nil {
			return domdish.Descriptor{}, fmt.Errorf("unmarshal ingredients: %w", err)
		}
	}

	var price *float64
	if m["price"] != "" {
		p, err := strconv.ParseFloat(m["price"], 64)
		if err != nil {
			return domdish.Descriptor{}, fmt.Errorf("invalid price: %w", err)
		}
		price = &p
	}

	return domdish.Reconstruct(m["id"], m["name"], ingredients, m["description"], price, m["restaurant_id"]), nil
}
