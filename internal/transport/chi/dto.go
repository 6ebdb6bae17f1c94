package chi

import (
	"time"

	"github.com/dishscout/dishscout/internal/domain/dish"
	"github.com/dishscout/dishscout/internal/domain/profile"
	domrest "github.com/dishscout/dishscout/internal/domain/restaurant"
	matchuc "github.com/dishscout/dishscout/internal/usecase/match"
	usageuc "github.com/dishscout/dishscout/internal/usecase/usage"
)

// Error codes returned in the "code" field of error responses.
const (
	codeBadRequest     = "bad_request"
	codeUnauthorized   = "unauthorized"
	codeNotFound       = "not_found"
	codeRateLimited    = "rate_limited"
	codeAnalysisFailed = "analysis_failed"
	codeInternalError  = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type dishResponse struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

func dishToResponse(d *dish.Descriptor) dishResponse {
	return dishResponse{
		ID:          d.ID(),
		Name:        d.Name(),
		Ingredients: d.Ingredients(),
		Description: d.Description(),
		Price:       d.Price(),
	}
}

type analyzeTextRequest struct {
	Text string `json:"text"`
}

type upsertRestaurantRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Cuisine   string  `json:"cuisine,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type restaurantResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Cuisine   string  `json:"cuisine,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Address   string  `json:"address,omitempty"`
}

func restaurantToResponse(r *domrest.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:        r.ID(),
		Name:      r.Name(),
		Latitude:  r.Location().Lat(),
		Longitude: r.Location().Lon(),
		Cuisine:   r.Cuisine(),
		Rating:    r.Rating(),
		Address:   r.Address(),
	}
}

type upsertDishRequest struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

type matchRequest struct {
	DishName      string   `json:"dish_name"`
	Ingredients   []string `json:"ingredients,omitempty"`
	Description   string   `json:"description,omitempty"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	MaxDistanceKm float64  `json:"max_distance_km,omitempty"`
	MinSimilarity int      `json:"min_similarity,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	UserID        string   `json:"user_id,omitempty"`
}

type matchRestaurantResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Cuisine    string  `json:"cuisine,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	Address    string  `json:"address,omitempty"`
	DistanceKm float64 `json:"distance_km"`
}

type matchItemResponse struct {
	DishID      string                  `json:"dish_id"`
	Name        string                  `json:"name"`
	Ingredients []string                `json:"ingredients,omitempty"`
	Description string                  `json:"description,omitempty"`
	Price       *float64                `json:"price,omitempty"`
	Similarity  int                     `json:"similarity"`
	Restaurant  matchRestaurantResponse `json:"restaurant"`
}

type matchParamsResponse struct {
	MaxDistanceKm float64  `json:"max_distance_km"`
	MinSimilarity int      `json:"min_similarity"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
}

type matchResponse struct {
	Matches []matchItemResponse `json:"matches"`
	Params  matchParamsResponse `json:"params"`
}

func matchToResponse(resp matchuc.Response) matchResponse {
	items := make([]matchItemResponse, len(resp.Matches))
	for i, m := range resp.Matches {
		items[i] = matchItemResponse{
			DishID:      m.DishID,
			Name:        m.Name,
			Ingredients: m.Ingredients,
			Description: m.Description,
			Price:       m.Price,
			Similarity:  m.Similarity,
			Restaurant: matchRestaurantResponse{
				ID:         m.Restaurant.ID,
				Name:       m.Restaurant.Name,
				Cuisine:    m.Restaurant.Cuisine,
				Rating:     m.Restaurant.Rating,
				Address:    m.Restaurant.Address,
				DistanceKm: m.Restaurant.DistanceKm,
			},
		}
	}
	return matchResponse{
		Matches: items,
		Params: matchParamsResponse{
			MaxDistanceKm: resp.Params.MaxDistanceKm,
			MinSimilarity: resp.Params.MinSimilarity,
			MaxPrice:      resp.Params.MaxPrice,
		},
	}
}

type addFavoriteRequest struct {
	RestaurantID string `json:"restaurant_id"`
}

type favoriteResponse struct {
	RestaurantID string `json:"restaurant_id"`
	DishID       string `json:"dish_id"`
}

func favoritesToResponse(favs []profile.Favorite) []favoriteResponse {
	out := make([]favoriteResponse, len(favs))
	for i, f := range favs {
		out[i] = favoriteResponse{RestaurantID: f.RestaurantID, DishID: f.DishID}
	}
	return out
}

type historyEntryResponse struct {
	DishName      string    `json:"dish_name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	RadiusKm      float64   `json:"radius_km"`
	MinSimilarity int       `json:"min_similarity"`
	MatchCount    int       `json:"match_count"`
	At            time.Time `json:"at"`
}

func historyToResponse(entries []profile.HistoryEntry) []historyEntryResponse {
	out := make([]historyEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = historyEntryResponse{
			DishName:      e.DishName,
			Latitude:      e.Latitude,
			Longitude:     e.Longitude,
			RadiusKm:      e.RadiusKm,
			MinSimilarity: e.MinSimilarity,
			MatchCount:    e.MatchCount,
			At:            e.At,
		}
	}
	return out
}

type usageResponse struct {
	Period      string    `json:"period"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Matches     int64     `json:"matches"`
	Analyses    int64     `json:"analyses"`
}

func usageToResponse(r usageuc.Report) usageResponse {
	return usageResponse{
		Period:      r.Period,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		Matches:     r.Matches,
		Analyses:    r.Analyses,
	}
}
