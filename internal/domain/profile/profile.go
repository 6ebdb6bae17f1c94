// Package profile holds per-user personalization entities: favorites
// and search history.
package profile

import "time"

// Favorite references a saved dish on a specific restaurant menu.
type Favorite struct {
	RestaurantID string
	DishID       string
}

// HistoryEntry records one match search a user ran.
type HistoryEntry struct {
	DishName      string
	Latitude      float64
	Longitude     float64
	RadiusKm      float64
	MinSimilarity int
	MatchCount    int
	At            time.Time
}
