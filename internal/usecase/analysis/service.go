// Package analysis validates dish analysis input and delegates to the
// configured provider.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/dish"
	"github.com/dishscout/dishscout/internal/repository/usage"
)

// maxTextLen caps free-text descriptions. Anything longer is noise, not
// a dish description.
const maxTextLen = 4000

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Service handles dish analysis requests.
type Service struct {
	analyzer      Analyzer
	counter       UsageCounter
	maxImageBytes int64
	logger        *zap.Logger
}

// New creates an analysis service. counter may be nil.
func New(analyzer Analyzer, counter UsageCounter, maxImageBytes int64, logger *zap.Logger) *Service {
	return &Service{
		analyzer:      analyzer,
		counter:       counter,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

// AnalyzeText extracts a dish descriptor from a free-text description.
func (s *Service) AnalyzeText(ctx context.Context, text string) (dish.Descriptor, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return dish.Descriptor{}, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	if len(text) > maxTextLen {
		return dish.Descriptor{}, fmt.Errorf(
			"%w: text exceeds %d characters", domain.ErrInvalidInput, maxTextLen,
		)
	}

	d, err := s.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		return dish.Descriptor{}, err
	}

	s.countRequest(ctx)
	return d, nil
}

// AnalyzeImage extracts a dish descriptor from a photo.
func (s *Service) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (dish.Descriptor, error) {
	if len(image) == 0 {
		return dish.Descriptor{}, fmt.Errorf("%w: image is required", domain.ErrInvalidInput)
	}
	if int64(len(image)) > s.maxImageBytes {
		return dish.Descriptor{}, fmt.Errorf(
			"%w: image exceeds %d bytes", domain.ErrInvalidInput, s.maxImageBytes,
		)
	}
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return dish.Descriptor{}, fmt.Errorf(
			"%w: unsupported image type %q", domain.ErrInvalidInput, mimeType,
		)
	}

	d, err := s.analyzer.AnalyzeImage(ctx, image, mimeType)
	if err != nil {
		return dish.Descriptor{}, err
	}

	s.countRequest(ctx)
	return d, nil
}

func (s *Service) countRequest(ctx context.Context) {
	if s.counter == nil {
		return
	}
	now := time.Now().UTC()
	for _, key := range []string{usage.DayKey("analysis", now), usage.MonthKey("analysis", now)} {
		if err := s.counter.IncrBy(ctx, key, 1); err != nil {
			s.logger.Warn("Failed to count analysis request", zap.String("key", key), zap.Error(err))
		}
	}
}
