package dishscout

import (
	"context"
	"fmt"

	matchuc "github.com/dishscout/dishscout/internal/usecase/match"
)

// MatchQuery describes one dish search. DishName, Latitude and
// Longitude are required; zero optional fields take the client
// defaults.
type MatchQuery struct {
	DishName    string
	Ingredients []string
	Description string

	Latitude  float64
	Longitude float64

	MaxDistanceKm float64
	MinSimilarity int
	MaxPrice      *float64

	// Optional. When set, the search lands in the user's history.
	UserID string
}

// MatchedRestaurant is the restaurant context attached to a match.
type MatchedRestaurant struct {
	ID         string
	Name       string
	Cuisine    string
	Rating     float64
	Address    string
	DistanceKm float64
}

// MatchedDish is one search result.
type MatchedDish struct {
	DishID      string
	Name        string
	Ingredients []string
	Description string
	Price       *float64
	Similarity  int
	Restaurant  MatchedRestaurant
}

// MatchParams echoes the effective parameters after defaulting.
type MatchParams struct {
	MaxDistanceKm float64
	MinSimilarity int
	MaxPrice      *float64
}

// MatchOutcome is a completed search. Empty Matches is a successful
// outcome, not an error.
type MatchOutcome struct {
	Matches []MatchedDish
	Params  MatchParams
}

// MatchService finds dishes similar to a target near a location.
type MatchService struct {
	svc *matchuc.Service
}

// Find runs the match pipeline for the given query.
func (s *MatchService) Find(ctx context.Context, q MatchQuery) (MatchOutcome, error) {
	resp, err := s.svc.Find(ctx, matchuc.Request{
		DishName:      q.DishName,
		Ingredients:   q.Ingredients,
		Description:   q.Description,
		Latitude:      q.Latitude,
		Longitude:     q.Longitude,
		MaxDistanceKm: q.MaxDistanceKm,
		MinSimilarity: q.MinSimilarity,
		MaxPrice:      q.MaxPrice,
		UserID:        q.UserID,
	})
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("find matches: %w", err)
	}

	matches := make([]MatchedDish, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = MatchedDish{
			DishID:      m.DishID,
			Name:        m.Name,
			Ingredients: m.Ingredients,
			Description: m.Description,
			Price:       m.Price,
			Similarity:  m.Similarity,
			Restaurant: MatchedRestaurant{
				ID:         m.Restaurant.ID,
				Name:       m.Restaurant.Name,
				Cuisine:    m.Restaurant.Cuisine,
				Rating:     m.Restaurant.Rating,
				Address:    m.Restaurant.Address,
				DistanceKm: m.Restaurant.DistanceKm,
			},
		}
	}
	return MatchOutcome{
		Matches: matches,
		Params: MatchParams{
			MaxDistanceKm: resp.Params.MaxDistanceKm,
			MinSimilarity: resp.Params.MinSimilarity,
			MaxPrice:      resp.Params.MaxPrice,
		},
	}, nil
}
