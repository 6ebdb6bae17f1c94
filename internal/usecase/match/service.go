// Package match orchestrates a dish search: proximity filter, similarity
// scoring, price filter, enrichment.
package match

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/dish"
	"github.com/dishscout/dishscout/internal/domain/geo"
	dommatch "github.com/dishscout/dishscout/internal/domain/match"
	"github.com/dishscout/dishscout/internal/domain/profile"
	"github.com/dishscout/dishscout/internal/metrics"
	"github.com/dishscout/dishscout/internal/repository/usage"
)

// Request describes one match search.
type Request struct {
	// Target dish. Name is required; ingredients and description narrow
	// the similarity evidence when present.
	DishName    string
	Ingredients []string
	Description string

	// Query origin.
	Latitude  float64
	Longitude float64

	// Optional constraints; zero values take the configured defaults.
	MaxDistanceKm float64
	MinSimilarity int
	MaxPrice      *float64

	// Optional. When set, the search is recorded in the user's history.
	UserID string
}

// RestaurantSummary is the restaurant context attached to each match.
type RestaurantSummary struct {
	ID         string
	Name       string
	Cuisine    string
	Rating     float64
	Address    string
	DistanceKm float64
}

// Match is one result: a candidate dish with its score and restaurant.
type Match struct {
	DishID      string
	Name        string
	Ingredients []string
	Description string
	Price       *float64
	Similarity  int
	Restaurant  RestaurantSummary
}

// Params echoes the effective search parameters after defaulting.
type Params struct {
	MaxDistanceKm float64
	MinSimilarity int
	MaxPrice      *float64
}

// Response is the result of one search. An empty Matches slice is a
// successful outcome, not an error.
type Response struct {
	Matches []Match
	Params  Params
}

// Service runs the match pipeline.
type Service struct {
	restaurants RestaurantLister
	dishes      DishLister
	history     HistoryRecorder
	counter     UsageCounter

	defaultRadiusKm      float64
	maxRadiusKm          float64
	defaultMinSimilarity int

	logger *zap.Logger
}

// New creates a match service. history and counter may be nil.
func New(
	restaurants RestaurantLister,
	dishes DishLister,
	history HistoryRecorder,
	counter UsageCounter,
	defaultRadiusKm, maxRadiusKm float64,
	defaultMinSimilarity int,
	logger *zap.Logger,
) *Service {
	return &Service{
		restaurants:          restaurants,
		dishes:               dishes,
		history:              history,
		counter:              counter,
		defaultRadiusKm:      defaultRadiusKm,
		maxRadiusKm:          maxRadiusKm,
		defaultMinSimilarity: defaultMinSimilarity,
		logger:               logger,
	}
}

// Find executes the full match pipeline: validate, find nearby
// restaurants, load their menus nearest-first, score, filter by price,
// enrich with restaurant context.
func (s *Service) Find(ctx context.Context, req Request) (Response, error) {
	target, origin, params, err := s.prepare(req)
	if err != nil {
		return Response{}, err
	}

	candidates, err := s.restaurants.ListNearby(ctx, origin, params.MaxDistanceKm)
	if err != nil {
		return Response{}, fmt.Errorf("list nearby restaurants: %w", err)
	}

	nearby := dommatch.FilterByDistance(candidates, origin, params.MaxDistanceKm)

	resp := Response{Matches: []Match{}, Params: params}
	if len(nearby) > 0 {
		matches, err := s.scoreMenus(ctx, &target, nearby, params)
		if err != nil {
			return Response{}, err
		}
		resp.Matches = matches
	}

	s.recordSearch(ctx, req, params, len(resp.Matches))
	return resp, nil
}

// prepare validates the request and resolves defaults.
func (s *Service) prepare(req Request) (dish.Descriptor, geo.Point, Params, error) {
	target, err := dish.New(req.DishName, req.Ingredients, req.Description, nil)
	if err != nil {
		return dish.Descriptor{}, geo.Point{}, Params{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	origin, err := geo.New(req.Latitude, req.Longitude)
	if err != nil {
		return dish.Descriptor{}, geo.Point{}, Params{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	params := Params{
		MaxDistanceKm: req.MaxDistanceKm,
		MinSimilarity: req.MinSimilarity,
		MaxPrice:      req.MaxPrice,
	}
	if params.MaxDistanceKm <= 0 {
		params.MaxDistanceKm = s.defaultRadiusKm
	}
	if params.MaxDistanceKm > s.maxRadiusKm {
		return dish.Descriptor{}, geo.Point{}, Params{}, fmt.Errorf(
			"%w: max distance %.1f km exceeds limit %.1f km",
			domain.ErrInvalidInput, params.MaxDistanceKm, s.maxRadiusKm,
		)
	}
	if params.MinSimilarity <= 0 {
		params.MinSimilarity = s.defaultMinSimilarity
	}
	if params.MinSimilarity > 100 {
		return dish.Descriptor{}, geo.Point{}, Params{}, fmt.Errorf(
			"%w: min similarity %d out of range", domain.ErrInvalidInput, params.MinSimilarity,
		)
	}
	if params.MaxPrice != nil && *params.MaxPrice < 0 {
		return dish.Descriptor{}, geo.Point{}, Params{}, fmt.Errorf(
			"%w: max price must not be negative", domain.ErrInvalidInput,
		)
	}

	return target, origin, params, nil
}

// scoreMenus loads menus nearest-first, scores them, applies the price
// filter and attaches restaurant context.
func (s *Service) scoreMenus(
	ctx context.Context, target *dish.Descriptor, nearby []dommatch.NearbyRestaurant, params Params,
) ([]Match, error) {
	// Nearest-first menu order: FindMatches sorts stably, so equal
	// scores keep this order and tie-break on proximity.
	ids := make([]string, len(nearby))
	byID := make(map[string]dommatch.NearbyRestaurant, len(nearby))
	for i, n := range nearby {
		ids[i] = n.Restaurant.ID()
		byID[n.Restaurant.ID()] = n
	}

	candidates, err := s.dishes.ListByRestaurants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}

	metrics.MatchCandidatesScored.Observe(float64(len(candidates)))

	scored := dommatch.FindMatches(target, candidates, params.MinSimilarity)

	out := make([]Match, 0, len(scored))
	for _, m := range scored {
		price := m.Dish.Price()
		if params.MaxPrice != nil {
			// Unknown price cannot satisfy a price cap.
			if price == nil || *price > *params.MaxPrice {
				continue
			}
		}

		n, ok := byID[m.Dish.RestaurantID()]
		if !ok {
			// Menu entry pointing at a restaurant outside the radius;
			// stale data, skip it.
			continue
		}

		out = append(out, Match{
			DishID:      m.Dish.ID(),
			Name:        m.Dish.Name(),
			Ingredients: m.Dish.Ingredients(),
			Description: m.Dish.Description(),
			Price:       price,
			Similarity:  m.Similarity,
			Restaurant: RestaurantSummary{
				ID:         n.Restaurant.ID(),
				Name:       n.Restaurant.Name(),
				Cuisine:    n.Restaurant.Cuisine(),
				Rating:     n.Restaurant.Rating(),
				Address:    n.Restaurant.Address(),
				DistanceKm: n.DistanceKm,
			},
		})
	}
	return out, nil
}

// recordSearch updates usage counters and, for identified users, search
// history. Failures are logged, never surfaced: the search succeeded.
func (s *Service) recordSearch(ctx context.Context, req Request, params Params, matchCount int) {
	now := time.Now().UTC()

	if s.counter != nil {
		for _, key := range []string{usage.DayKey("match", now), usage.MonthKey("match", now)} {
			if err := s.counter.IncrBy(ctx, key, 1); err != nil {
				s.logger.Warn("Failed to count match request", zap.String("key", key), zap.Error(err))
			}
		}
	}

	if s.history == nil || req.UserID == "" {
		return
	}
	entry := profile.HistoryEntry{
		DishName:      req.DishName,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		RadiusKm:      params.MaxDistanceKm,
		MinSimilarity: params.MinSimilarity,
		MatchCount:    matchCount,
		At:            now,
	}
	if err := s.history.Record(ctx, req.UserID, entry); err != nil {
		s.logger.Warn("Failed to record search history", zap.String("user_id", req.UserID), zap.Error(err))
	}
}
