// Package history persists per-user search history in a capped list.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/profile"
)

// store is the consumer interface for history (ISP).
type store interface {
	LPush(ctx context.Context, key string, values ...string) error
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// entryDTO is the stored JSON form of a history entry.
type entryDTO struct {
	DishName      string    `json:"dish_name"`
	Latitude      float64   `json:"lat"`
	Longitude     float64   `json:"lon"`
	RadiusKm      float64   `json:"radius_km"`
	MinSimilarity int       `json:"min_similarity"`
	MatchCount    int       `json:"match_count"`
	At            time.Time `json:"at"`
}

// Repo implements the history persistence contract. Entries are kept
// newest-first; writes trim the list to the configured limit.
type Repo struct {
	store store
	limit int64
}

// New creates a history repository keeping at most limit entries per user.
func New(s store, limit int) *Repo {
	return &Repo{store: s, limit: int64(limit)}
}

func historyKey(userID string) string {
	return domain.KeyPrefix + "user:" + userID + ":history"
}

// Record prepends an entry and trims the list to the limit.
func (r *Repo) Record(ctx context.Context, userID string, e profile.HistoryEntry) error {
	dto := entryDTO{
		DishName:      e.DishName,
		Latitude:      e.Latitude,
		Longitude:     e.Longitude,
		RadiusKm:      e.RadiusKm,
		MinSimilarity: e.MinSimilarity,
		MatchCount:    e.MatchCount,
		At:            e.At,
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	key := historyKey(userID)
	if err := r.store.LPush(ctx, key, string(data)); err != nil {
		return fmt.Errorf("push history: %w", err)
	}
	if err := r.store.LTrim(ctx, key, 0, r.limit-1); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. Entries that fail to
// decode are skipped rather than failing the whole read.
func (r *Repo) List(ctx context.Context, userID string) ([]profile.HistoryEntry, error) {
	raw, err := r.store.LRange(ctx, historyKey(userID), 0, r.limit-1)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	out := make([]profile.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var dto entryDTO
		if err := json.Unmarshal([]byte(item), &dto); err != nil {
			continue
		}
		out = append(out, profile.HistoryEntry{
			DishName:      dto.DishName,
			Latitude:      dto.Latitude,
			Longitude:     dto.Longitude,
			RadiusKm:      dto.RadiusKm,
			MinSimilarity: dto.MinSimilarity,
			MatchCount:    dto.MatchCount,
			At:            dto.At,
		})
	}
	return out, nil
}
