package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a request that fails boundary validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRestaurantNotFound signals a missing restaurant.
	ErrRestaurantNotFound = errors.New("restaurant not found")
	// ErrDishNotFound signals a missing dish.
	ErrDishNotFound = errors.New("dish not found")
	// ErrAnalysisFailed signals a dish analysis provider failure.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// AnalysisError wraps ErrAnalysisFailed with a human-readable reason
// suitable for the client.
type AnalysisError struct {
	Reason string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAnalysisFailed.Error(), e.Reason)
}

func (e *AnalysisError) Unwrap() error { return ErrAnalysisFailed }

// NewAnalysisError creates an analysis failure with a reason.
func NewAnalysisError(reason string) error {
	return &AnalysisError{Reason: reason}
}
