package restaurant

import (
	"fmt"
	"strconv"

	"github.com/dishscout/dishscout/internal/domain/geo"
	domrest "github.com/dishscout/dishscout/internal/domain/restaurant"
)

// restaurantToHash converts a domain Restaurant to a map for HSET.
func restaurantToHash(r *domrest.Restaurant) map[string]string {
	return map[string]string{
		"id":      r.ID(),
		"name":    r.Name(),
		"lat":     strconv.FormatFloat(r.Location().Lat(), 'f', -1, 64),
		"lon":     strconv.FormatFloat(r.Location().Lon(), 'f', -1, 64),
		"cuisine": r.Cuisine(),
		"rating":  strconv.FormatFloat(r.Rating(), 'f', -1, 64),
		"address": r.Address(),
	}
}

// restaurantFromHash hydrates a domain Restaurant from an HGETALL result map.
func restaurantFromHash(m map[string]string) (domrest.Restaurant, error) {
	lat, err := strconv.ParseFloat(m["lat"], 64)
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("invalid lat: %w", err)
	}
	lon, err := strconv.ParseFloat(m["lon"], 64)
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("invalid lon: %w", err)
	}
	loc, err := geo.New(lat, lon)
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("invalid location: %w", err)
	}

	rating := 0.0
	if m["rating"] != "" {
		rating, err = strconv.ParseFloat(m["rating"], 64)
		if err != nil {
			return domrest.Restaurant{}, fmt.Errorf("invalid rating: %w", err)
		}
	}

	return domrest.Reconstruct(m["id"], m["name"], loc, m["cuisine"], rating, m["address"]), nil
}
