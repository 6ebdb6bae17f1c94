// Package history exposes a user's recent searches.
package history

import (
	"context"
	"fmt"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/profile"
)

// Repository defines the storage contract for search history.
type Repository interface {
	List(ctx context.Context, userID string) ([]profile.HistoryEntry, error)
}

// Service handles history reads. Writes happen inside the match
// pipeline; this service only serves the profile surface.
type Service struct {
	repo Repository
}

// New creates a history service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's recent searches, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]profile.HistoryEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	return s.repo.List(ctx, userID)
}
