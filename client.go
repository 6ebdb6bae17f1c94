// Package dishscout embeds the dish discovery engine as a Go library.
// It wires the same repositories and services the API server runs over
// a Redis connection owned by the client, without the HTTP layer.
package dishscout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/db"
	dbRedis "github.com/dishscout/dishscout/internal/db/redis"
	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/repository/analysiscache"
	dishrepo "github.com/dishscout/dishscout/internal/repository/dish"
	favoritesrepo "github.com/dishscout/dishscout/internal/repository/favorites"
	historyrepo "github.com/dishscout/dishscout/internal/repository/history"
	restaurantrepo "github.com/dishscout/dishscout/internal/repository/restaurant"
	usagerepo "github.com/dishscout/dishscout/internal/repository/usage"
	openaiTransport "github.com/dishscout/dishscout/internal/transport/openai"
	analysisuc "github.com/dishscout/dishscout/internal/usecase/analysis"
	favoritesuc "github.com/dishscout/dishscout/internal/usecase/favorites"
	historyuc "github.com/dishscout/dishscout/internal/usecase/history"
	matchuc "github.com/dishscout/dishscout/internal/usecase/match"
	restaurantuc "github.com/dishscout/dishscout/internal/usecase/restaurant"
	usageuc "github.com/dishscout/dishscout/internal/usecase/usage"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the dishscout SDK entry point.
type Client struct {
	store db.Store

	analysisSvc *analysisuc.Service
	matchSvc    *matchuc.Service
	restSvc     *restaurantuc.Service
	favSvc      *favoritesuc.Service
	histSvc     *historyuc.Service
	usageSvc    *usageuc.Service
}

// New creates a dishscout Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("dishscout: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("dishscout: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("dishscout: database not ready: %w", err)
	}

	return wireClient(store, cfg)
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	restRepo := restaurantrepo.New(store)
	if _, err := restRepo.Warm(context.Background()); err != nil {
		return nil, fmt.Errorf("dishscout: warm restaurant index: %w", err)
	}
	dishRepo := dishrepo.New(store)
	favRepo := favoritesrepo.New(store)
	histRepo := historyrepo.New(store, cfg.historyLimit)
	usageStore := usagerepo.New(store, 48*time.Hour, 62*24*time.Hour)

	analyzer := buildDomainAnalyzer(cfg, store, logger)

	return &Client{
		store:       store,
		analysisSvc: analysisuc.New(analyzer, usageStore, cfg.maxImageBytes, logger),
		matchSvc: matchuc.New(
			restRepo, dishRepo, histRepo, usageStore,
			cfg.defaultRadiusKm, cfg.maxRadiusKm, cfg.defaultMinSimilarity,
			logger,
		),
		restSvc:  restaurantuc.New(restRepo, dishRepo),
		favSvc:   favoritesuc.New(favRepo),
		histSvc:  historyuc.New(histRepo),
		usageSvc: usageuc.New(usageStore),
	}, nil
}

// buildDomainAnalyzer resolves the analyzer chain from the options:
// a caller-supplied Analyzer, an OpenAI-compatible provider, or the
// noop fallback that errors on use.
func buildDomainAnalyzer(cfg *clientConfig, store db.Store, logger *zap.Logger) domain.Analyzer {
	var analyzer domain.Analyzer

	switch {
	case cfg.analyzer != nil:
		analyzer = &analyzerAdapter{inner: cfg.analyzer}
	case cfg.openAI != nil:
		analyzer = openaiTransport.NewAnalyzer(&openaiTransport.Config{
			APIKey:   cfg.openAI.apiKey,
			BaseURL:  cfg.openAI.baseURL,
			Model:    cfg.openAI.model,
			Provider: "openai",
			Logger:   logger,
		})
	default:
		return &noopAnalyzer{}
	}

	if cfg.analysisCacheTTL > 0 {
		analyzer = analysiscache.New(analyzer, store, cfg.analysisCacheTTL, nil, logger)
	}
	return analyzer
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Match returns the dish match service.
func (c *Client) Match() *MatchService {
	return &MatchService{svc: c.matchSvc}
}

// Restaurants returns the restaurant and menu management service.
func (c *Client) Restaurants() *RestaurantService {
	return &RestaurantService{svc: c.restSvc}
}

// Profile returns the personalization service for a given user.
func (c *Client) Profile(userID string) *ProfileService {
	return &ProfileService{userID: userID, fav: c.favSvc, hist: c.histSvc}
}

// Analysis returns the dish analysis service.
func (c *Client) Analysis() *AnalysisService {
	return &AnalysisService{svc: c.analysisSvc}
}

// Usage returns the usage reporting service.
func (c *Client) Usage() *UsageService {
	return &UsageService{svc: c.usageSvc}
}
