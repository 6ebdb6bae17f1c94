// Package chi exposes the HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/domain"
	analysisuc "github.com/dishscout/dishscout/internal/usecase/analysis"
	favoritesuc "github.com/dishscout/dishscout/internal/usecase/favorites"
	healthuc "github.com/dishscout/dishscout/internal/usecase/health"
	historyuc "github.com/dishscout/dishscout/internal/usecase/history"
	matchuc "github.com/dishscout/dishscout/internal/usecase/match"
	restaurantuc "github.com/dishscout/dishscout/internal/usecase/restaurant"
	usageuc "github.com/dishscout/dishscout/internal/usecase/usage"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	analysis      *analysisuc.Service
	match         *matchuc.Service
	restaurants   *restaurantuc.Service
	favorites     *favoritesuc.Service
	history       *historyuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	maxImageBytes int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	analysis *analysisuc.Service,
	match *matchuc.Service,
	restaurants *restaurantuc.Service,
	favorites *favoritesuc.Service,
	history *historyuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	maxImageBytes int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		analysis:      analysis,
		match:         match,
		restaurants:   restaurants,
		favorites:     favorites,
		history:       history,
		usage:         usage,
		health:        health,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		analysisFailedHandler,
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrRestaurantNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrDishNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
	}
	return s
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.healthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze/image", s.analyzeImage)
		r.Post("/analyze/text", s.analyzeText)
		r.Post("/match", s.findMatches)

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", s.listRestaurants)
			r.Put("/{id}", s.upsertRestaurant)
			r.Get("/{id}", s.getRestaurant)
			r.Delete("/{id}", s.deleteRestaurant)

			r.Get("/{id}/dishes", s.listDishes)
			r.Put("/{id}/dishes/{dishID}", s.upsertDish)
			r.Delete("/{id}/dishes/{dishID}", s.deleteDish)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/favorites", s.listFavorites)
			r.Put("/favorites/{dishID}", s.addFavorite)
			r.Delete("/favorites/{dishID}", s.removeFavorite)
			r.Get("/history", s.listHistory)
		})

		r.Get("/usage", s.getUsage)
	})
}

// analyzeImage handles POST /api/v1/analyze/image (multipart "image").
func (s *Server) analyzeImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, `multipart field "image" is required`)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, s.maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read image")
		return
	}

	d, err := s.analysis.AnalyzeImage(r.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dishToResponse(&d))
}

// analyzeText handles POST /api/v1/analyze/text.
func (s *Server) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	d, err := s.analysis.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dishToResponse(&d))
}

// findMatches handles POST /api/v1/match.
func (s *Server) findMatches(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.match.Find(r.Context(), matchuc.Request{
		DishName:      req.DishName,
		Ingredients:   req.Ingredients,
		Description:   req.Description,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		MaxDistanceKm: req.MaxDistanceKm,
		MinSimilarity: req.MinSimilarity,
		MaxPrice:      req.MaxPrice,
		UserID:        req.UserID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matchToResponse(resp))
}

// upsertRestaurant handles PUT /api/v1/restaurants/{id}.
func (s *Server) upsertRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req upsertRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.restaurants.Upsert(r.Context(), id, restaurantuc.UpsertInput{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Cuisine:   req.Cuisine,
		Rating:    req.Rating,
		Address:   req.Address,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/restaurants/%s", id))
	}

	rest, err := s.restaurants.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, status, restaurantToResponse(&rest))
}

// getRestaurant handles GET /api/v1/restaurants/{id}.
func (s *Server) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := s.restaurants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurantToResponse(&rest))
}

// deleteRestaurant handles DELETE /api/v1/restaurants/{id}.
func (s *Server) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := s.restaurants.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listRestaurants handles GET /api/v1/restaurants.
func (s *Server) listRestaurants(w http.ResponseWriter, r *http.Request) {
	rests, err := s.restaurants.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]restaurantResponse, len(rests))
	for i := range rests {
		items[i] = restaurantToResponse(&rests[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// upsertDish handles PUT /api/v1/restaurants/{id}/dishes/{dishID}.
func (s *Server) upsertDish(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	dishID := chi.URLParam(r, "dishID")

	var req upsertDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.restaurants.UpsertDish(r.Context(), restaurantID, dishID, restaurantuc.DishInput{
		Name:        req.Name,
		Ingredients: req.Ingredients,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/restaurants/%s/dishes/%s", restaurantID, dishID))
	}
	w.WriteHeader(status)
}

// deleteDish handles DELETE /api/v1/restaurants/{id}/dishes/{dishID}.
func (s *Server) deleteDish(w http.ResponseWriter, r *http.Request) {
	err := s.restaurants.DeleteDish(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "dishID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listDishes handles GET /api/v1/restaurants/{id}/dishes.
func (s *Server) listDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := s.restaurants.ListDishes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]dishResponse, len(dishes))
	for i := range dishes {
		items[i] = dishToResponse(&dishes[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// addFavorite handles PUT /api/v1/users/{userID}/favorites/{dishID}.
func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.favorites.Add(r.Context(), chi.URLParam(r, "userID"), req.RestaurantID, chi.URLParam(r, "dishID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if created {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// removeFavorite handles DELETE /api/v1/users/{userID}/favorites/{dishID}.
// The owning restaurant travels in the restaurant_id query parameter.
func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	restaurantID := r.URL.Query().Get("restaurant_id")

	removed, err := s.favorites.Remove(r.Context(), chi.URLParam(r, "userID"), restaurantID, chi.URLParam(r, "dishID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, codeNotFound, "favorite not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listFavorites handles GET /api/v1/users/{userID}/favorites.
func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.favorites.List(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": favoritesToResponse(favs)})
}

// listHistory handles GET /api/v1/users/{userID}/history.
func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.history.List(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": historyToResponse(entries)})
}

// getUsage handles GET /api/v1/usage. Period defaults to "day".
func (s *Server) getUsage(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "day"
	}
	if period != "day" && period != "month" {
		writeError(w, http.StatusBadRequest, codeBadRequest, `period must be "day" or "month"`)
		return
	}

	report, err := s.usage.GetReport(r.Context(), period)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usageToResponse(report))
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrRestaurantNotFound,
		domain.ErrDishNotFound,
		domain.ErrRateLimited,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// analysisFailedHandler maps provider failures to 502 and surfaces the
// provider reason to the client.
func analysisFailedHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrAnalysisFailed) {
		return false
	}
	msg := domain.ErrAnalysisFailed.Error()
	var ae *domain.AnalysisError
	if errors.As(err, &ae) {
		msg = ae.Reason
	}
	writeError(w, http.StatusBadGateway, codeAnalysisFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
