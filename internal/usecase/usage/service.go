// Package usage reports request counters per period.
package usage

import (
	"context"
	"fmt"
	"time"

	repo "github.com/dishscout/dishscout/internal/repository/usage"
)

// Kinds of counted requests.
const (
	KindMatch    = "match"
	KindAnalysis = "analysis"
)

// Report is a usage snapshot for one period.
type Report struct {
	Period      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Matches     int64
	Analyses    int64
}

// Service handles usage reporting.
type Service struct {
	counters CounterReader
}

// New creates a usage service.
func New(counters CounterReader) *Service {
	return &Service{counters: counters}
}

// GetReport builds a usage report for "day" or "month".
func (s *Service) GetReport(ctx context.Context, period string) (Report, error) {
	now := time.Now().UTC()

	var start, end time.Time
	var matchKey, analysisKey string

	switch period {
	case "day":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
		matchKey = repo.DayKey(KindMatch, now)
		analysisKey = repo.DayKey(KindAnalysis, now)
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		matchKey = repo.MonthKey(KindMatch, now)
		analysisKey = repo.MonthKey(KindAnalysis, now)
	default:
		return Report{}, fmt.Errorf("unsupported usage period: %q", period)
	}

	matches, err := s.counters.Get(ctx, matchKey)
	if err != nil {
		return Report{}, fmt.Errorf("read match counter: %w", err)
	}
	analyses, err := s.counters.Get(ctx, analysisKey)
	if err != nil {
		return Report{}, fmt.Errorf("read analysis counter: %w", err)
	}

	return Report{
		Period:      period,
		PeriodStart: start,
		PeriodEnd:   end,
		Matches:     matches,
		Analyses:    analyses,
	}, nil
}
