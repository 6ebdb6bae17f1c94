package dishscout

import (
	"context"
	"fmt"
	"time"

	usageuc "github.com/dishscout/dishscout/internal/usecase/usage"
)

// UsageReport is a usage snapshot for one period ("day" or "month").
type UsageReport struct {
	Period      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Matches     int64
	Analyses    int64
}

// UsageService reports request counters.
type UsageService struct {
	svc *usageuc.Service
}

// Report returns the usage counters for "day" or "month".
func (s *UsageService) Report(ctx context.Context, period string) (UsageReport, error) {
	r, err := s.svc.GetReport(ctx, period)
	if err != nil {
		return UsageReport{}, fmt.Errorf("usage report: %w", err)
	}
	return UsageReport{
		Period:      r.Period,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		Matches:     r.Matches,
		Analyses:    r.Analyses,
	}, nil
}
