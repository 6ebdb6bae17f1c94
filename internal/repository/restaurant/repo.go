// Package restaurant persists restaurants in hash keys and keeps an
// in-memory spatial index over their locations for radius queries.
package restaurant

import (
	"context"
	"fmt"
	"sort"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/geo"
	domrest "github.com/dishscout/dishscout/internal/domain/restaurant"
)

// store is the consumer interface for restaurants (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the restaurant persistence contract.
type Repo struct {
	store store
	idx   *spatialIndex
}

// New creates a restaurant repository. Call Warm before serving queries
// so the spatial index reflects the store.
func New(s store) *Repo {
	return &Repo{store: s, idx: newSpatialIndex()}
}

func restaurantKey(id string) string {
	return domain.KeyPrefix + "restaurant:" + id
}

// Warm loads every stored restaurant into the spatial index.
func (r *Repo) Warm(ctx context.Context) (int, error) {
	all, err := r.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("warm index: %w", err)
	}
	for i := range all {
		r.idx.upsert(all[i].ID(), all[i].Location())
	}
	return r.idx.size(), nil
}

// Upsert stores a restaurant and updates the spatial index.
// Returns true when the restaurant did not exist before.
func (r *Repo) Upsert(ctx context.Context, rest *domrest.Restaurant) (bool, error) {
	key := restaurantKey(rest.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}

	if err := r.store.HSet(ctx, key, restaurantToHash(rest)); err != nil {
		return false, fmt.Errorf("store restaurant: %w", err)
	}

	r.idx.upsert(rest.ID(), rest.Location())
	return !exists, nil
}

// Get returns a restaurant by id.
func (r *Repo) Get(ctx context.Context, id string) (domrest.Restaurant, error) {
	m, err := r.store.HGetAll(ctx, restaurantKey(id))
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	if len(m) == 0 {
		return domrest.Restaurant{}, domain.ErrRestaurantNotFound
	}
	return restaurantFromHash(m)
}

// Delete removes a restaurant and its index entry.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := restaurantKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrRestaurantNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}

	r.idx.remove(id)
	return nil
}

// List returns all stored restaurants sorted by id.
func (r *Repo) List(ctx context.Context) ([]domrest.Restaurant, error) {
	keys, err := r.store.Scan(ctx, domain.KeyPrefix+"restaurant:*")
	if err != nil {
		return nil, fmt.Errorf("scan restaurants: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	return r.hydrate(ctx, keys)
}

// ListNearby returns restaurants whose indexed location falls within the
// bounding box around origin. The box over-approximates radiusKm; the
// caller applies the exact distance filter.
func (r *Repo) ListNearby(ctx context.Context, origin geo.Point, radiusKm float64) ([]domrest.Restaurant, error) {
	ids := r.idx.nearbyIDs(origin, radiusKm)
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = restaurantKey(id)
	}
	return r.hydrate(ctx, keys)
}

func (r *Repo) hydrate(ctx context.Context, keys []string) ([]domrest.Restaurant, error) {
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}

	out := make([]domrest.Restaurant, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			// Deleted between index lookup and hydration.
			continue
		}
		rest, err := restaurantFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("restaurant %s: %w", keys[i], err)
		}
		out = append(out, rest)
	}
	return out, nil
}
