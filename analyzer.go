package dishscout

import (
	"context"
	"errors"
	"fmt"

	"github.com/dishscout/dishscout/internal/domain/dish"
	analysisuc "github.com/dishscout/dishscout/internal/usecase/analysis"
)

// DishInfo is the public form of an analyzed or stored dish.
type DishInfo struct {
	ID          string
	Name        string
	Ingredients []string
	Description string
	Price       *float64
}

// Analyzer extracts a dish from free text or a photo. Plug in a custom
// implementation with WithAnalyzer.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (DishInfo, error)
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (DishInfo, error)
}

// AnalysisService runs dish analysis through the configured provider.
type AnalysisService struct {
	svc *analysisuc.Service
}

// Text extracts a dish from a free-text description.
func (s *AnalysisService) Text(ctx context.Context, text string) (DishInfo, error) {
	d, err := s.svc.AnalyzeText(ctx, text)
	if err != nil {
		return DishInfo{}, fmt.Errorf("analyze text: %w", err)
	}
	return fromDescriptor(&d), nil
}

// Image extracts a dish from a photo.
func (s *AnalysisService) Image(ctx context.Context, image []byte, mimeType string) (DishInfo, error) {
	d, err := s.svc.AnalyzeImage(ctx, image, mimeType)
	if err != nil {
		return DishInfo{}, fmt.Errorf("analyze image: %w", err)
	}
	return fromDescriptor(&d), nil
}

func fromDescriptor(d *dish.Descriptor) DishInfo {
	return DishInfo{
		ID:          d.ID(),
		Name:        d.Name(),
		Ingredients: d.Ingredients(),
		Description: d.Description(),
		Price:       d.Price(),
	}
}

// analyzerAdapter wraps the public Analyzer to satisfy domain.Analyzer.
type analyzerAdapter struct {
	inner Analyzer
}

func (a *analyzerAdapter) AnalyzeText(ctx context.Context, text string) (dish.Descriptor, error) {
	info, err := a.inner.AnalyzeText(ctx, text)
	if err != nil {
		return dish.Descriptor{}, fmt.Errorf("analyze text: %w", err)
	}
	return toDescriptor(info)
}

func (a *analyzerAdapter) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (dish.Descriptor, error) {
	info, err := a.inner.AnalyzeImage(ctx, image, mimeType)
	if err != nil {
		return dish.Descriptor{}, fmt.Errorf("analyze image: %w", err)
	}
	return toDescriptor(info)
}

func toDescriptor(info DishInfo) (dish.Descriptor, error) {
	d, err := dish.New(info.Name, info.Ingredients, info.Description, info.Price)
	if err != nil {
		return dish.Descriptor{}, fmt.Errorf("invalid analyzer result: %w", err)
	}
	return d, nil
}

// noopAnalyzer returns an error on use (no analyzer configured).
type noopAnalyzer struct{}

func (noopAnalyzer) AnalyzeText(_ context.Context, _ string) (dish.Descriptor, error) {
	return dish.Descriptor{}, errors.New(
		"dishscout: analyzer not configured (use WithAnalyzer or WithOpenAI)",
	)
}

func (noopAnalyzer) AnalyzeImage(_ context.Context, _ []byte, _ string) (dish.Descriptor, error) {
	return dish.Descriptor{}, errors.New(
		"dishscout: analyzer not configured (use WithAnalyzer or WithOpenAI)",
	)
}
