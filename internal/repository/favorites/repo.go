// Package favorites persists a per-user set of saved dishes.
package favorites

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/profile"
)

// store is the consumer interface for favorites (ISP).
type store interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
}

// Repo implements the favorites persistence contract.
type Repo struct {
	store store
}

// New creates a favorites repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func favoritesKey(userID string) string {
	return domain.KeyPrefix + "user:" + userID + ":favorites"
}

// Members are stored as "restaurantID/dishID". Dish ids never contain a
// slash (ids are URL path segments), so the first slash splits safely.
func encodeMember(f profile.Favorite) string {
	return f.RestaurantID + "/" + f.DishID
}

func decodeMember(m string) (profile.Favorite, error) {
	rid, did, ok := strings.Cut(m, "/")
	if !ok || rid == "" || did == "" {
		return profile.Favorite{}, fmt.Errorf("malformed favorite member %q", m)
	}
	return profile.Favorite{RestaurantID: rid, DishID: did}, nil
}

// Add saves a favorite. Returns true when it was not saved before.
func (r *Repo) Add(ctx context.Context, userID string, f profile.Favorite) (bool, error) {
	key := favoritesKey(userID)
	member := encodeMember(f)

	existed, err := r.store.SIsMember(ctx, key, member)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	if err := r.store.SAdd(ctx, key, member); err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return !existed, nil
}

// Remove deletes a favorite. Returns true when it was present.
func (r *Repo) Remove(ctx context.Context, userID string, f profile.Favorite) (bool, error) {
	key := favoritesKey(userID)
	member := encodeMember(f)

	existed, err := r.store.SIsMember(ctx, key, member)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	if !existed {
		return false, nil
	}
	if err := r.store.SRem(ctx, key, member); err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return true, nil
}

// List returns a user's favorites sorted by restaurant then dish id.
func (r *Repo) List(ctx context.Context, userID string) ([]profile.Favorite, error) {
	members, err := r.store.SMembers(ctx, favoritesKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	sort.Strings(members)

	out := make([]profile.Favorite, 0, len(members))
	for _, m := range members {
		f, err := decodeMember(m)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
