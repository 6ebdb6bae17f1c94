package analysis

import (
	"context"

	"github.com/dishscout/dishscout/internal/domain/dish"
)

// Analyzer extracts a dish descriptor from text or a photo.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (dish.Descriptor, error)
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (dish.Descriptor, error)
}

// UsageCounter increments a request counter key.
type UsageCounter interface {
	IncrBy(ctx context.Context, key string, val int64) error
}
