package domain

import (
	"context"

	"github.com/dishscout/dishscout/internal/domain/dish"
)

// TextAnalyzer extracts a dish descriptor from a free-text description.
type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, text string) (dish.Descriptor, error)
}

// ImageAnalyzer extracts a dish descriptor from a photo.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (dish.Descriptor, error)
}

// Analyzer combines both analysis modes of a provider.
type Analyzer interface {
	TextAnalyzer
	ImageAnalyzer
}

// HealthChecker verifies analysis provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
