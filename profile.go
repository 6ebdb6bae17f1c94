package dishscout

import (
	"context"
	"fmt"
	"time"

	favoritesuc "github.com/dishscout/dishscout/internal/usecase/favorites"
	historyuc "github.com/dishscout/dishscout/internal/usecase/history"
)

// Favorite references a saved dish on a specific restaurant menu.
type Favorite struct {
	RestaurantID string
	DishID       string
}

// SearchRecord is one entry from a user's search history.
type SearchRecord struct {
	DishName      string
	Latitude      float64
	Longitude     float64
	RadiusKm      float64
	MinSimilarity int
	MatchCount    int
	At            time.Time
}

// ProfileService handles one user's favorites and search history.
type ProfileService struct {
	userID string
	fav    *favoritesuc.Service
	hist   *historyuc.Service
}

// AddFavorite saves a dish to the user's favorites.
// Returns true when it was not saved before.
func (s *ProfileService) AddFavorite(ctx context.Context, restaurantID, dishID string) (bool, error) {
	added, err := s.fav.Add(ctx, s.userID, restaurantID, dishID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return added, nil
}

// RemoveFavorite deletes a dish from the user's favorites.
// Returns true when it was present.
func (s *ProfileService) RemoveFavorite(ctx context.Context, restaurantID, dishID string) (bool, error) {
	removed, err := s.fav.Remove(ctx, s.userID, restaurantID, dishID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return removed, nil
}

// Favorites returns the user's saved dishes.
func (s *ProfileService) Favorites(ctx context.Context) ([]Favorite, error) {
	favs, err := s.fav.List(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	out := make([]Favorite, len(favs))
	for i, f := range favs {
		out[i] = Favorite{RestaurantID: f.RestaurantID, DishID: f.DishID}
	}
	return out, nil
}

// History returns the user's recent searches, newest first.
func (s *ProfileService) History(ctx context.Context) ([]SearchRecord, error) {
	entries, err := s.hist.List(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	out := make([]SearchRecord, len(entries))
	for i, e := range entries {
		out[i] = SearchRecord{
			DishName:      e.DishName,
			Latitude:      e.Latitude,
			Longitude:     e.Longitude,
			RadiusKm:      e.RadiusKm,
			MinSimilarity: e.MinSimilarity,
			MatchCount:    e.MatchCount,
			At:            e.At,
		}
	}
	return out, nil
}
