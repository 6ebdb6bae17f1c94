// Package dish persists menu items: one hash per dish plus a
// per-restaurant id set for menu listing.
package dish

import (
	"context"
	"fmt"
	"sort"

	"github.com/dishscout/dishscout/internal/domain"
	domdish "github.com/dishscout/dishscout/internal/domain/dish"
)

// store is the consumer interface for dishes (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
}

// Repo implements the dish persistence contract.
type Repo struct {
	store store
}

// New creates a dish repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func dishKey(restaurantID, dishID string) string {
	return domain.KeyPrefix + "dish:" + restaurantID + ":" + dishID
}

func menuKey(restaurantID string) string {
	return domain.KeyPrefix + "menu:" + restaurantID
}

// Upsert stores a dish and registers it on the restaurant menu.
// Returns true when the dish did not exist before.
func (r *Repo) Upsert(ctx context.Context, d *domdish.Descriptor) (bool, error) {
	if d.RestaurantID() == "" || d.ID() == "" {
		return false, fmt.Errorf("dish requires restaurant id and dish id")
	}

	existed, err := r.store.SIsMember(ctx, menuKey(d.RestaurantID()), d.ID())
	if err != nil {
		return false, fmt.Errorf("check menu membership: %w", err)
	}

	fields, err := dishToHash(d)
	if err != nil {
		return false, err
	}
	if err := r.store.HSet(ctx, dishKey(d.RestaurantID(), d.ID()), fields); err != nil {
		return false, fmt.Errorf("store dish: %w", err)
	}
	if err := r.store.SAdd(ctx, menuKey(d.RestaurantID()), d.ID()); err != nil {
		return false, fmt.Errorf("register dish on menu: %w", err)
	}

	return !existed, nil
}

// Delete removes a dish and its menu registration.
func (r *Repo) Delete(ctx context.Context, restaurantID, dishID string) error {
	existed, err := r.store.SIsMember(ctx, menuKey(restaurantID), dishID)
	if err != nil {
		return fmt.Errorf("check menu membership: %w", err)
	}
	if !existed {
		return domain.ErrDishNotFound
	}

	if err := r.store.Del(ctx, dishKey(restaurantID, dishID)); err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	if err := r.store.SRem(ctx, menuKey(restaurantID), dishID); err != nil {
		return fmt.Errorf("unregister dish: %w", err)
	}
	return nil
}

// ListByRestaurant returns a restaurant's menu sorted by dish id.
func (r *Repo) ListByRestaurant(ctx context.Context, restaurantID string) ([]domdish.Descriptor, error) {
	return r.loadMenu(ctx, restaurantID)
}

// ListByRestaurants returns dishes for the given restaurants, preserving
// the order of restaurantIDs. Callers pass restaurants nearest-first so
// downstream ranking tie-breaks on proximity.
func (r *Repo) ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]domdish.Descriptor, error) {
	var out []domdish.Descriptor
	for _, rid := range restaurantIDs {
		dishes, err := r.loadMenu(ctx, rid)
		if err != nil {
			return nil, err
		}
		out = append(out, dishes...)
	}
	return out, nil
}

func (r *Repo) loadMenu(ctx context.Context, restaurantID string) ([]domdish.Descriptor, error) {
	ids, err := r.store.SMembers(ctx, menuKey(restaurantID))
	if err != nil {
		return nil, fmt.Errorf("list menu %s: %w", restaurantID, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = dishKey(restaurantID, id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load dishes %s: %w", restaurantID, err)
	}

	out := make([]domdish.Descriptor, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		d, err := dishFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("dish %s: %w", keys[i], err)
		}
		out = append(out, d)
	}
	return out, nil
}
