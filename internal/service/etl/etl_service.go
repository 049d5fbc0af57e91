// Package etl aggregates yearly goal progress and keeps the results as snapshots.
package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/metrics"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/shopspring/decimal"
)

const (
	minYear = 1900
	maxYear = 9999
)

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(store store.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// YearBounds returns [year-01-01, year+1-01-01) in UTC.
func YearBounds(year domain.Year) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// Run averages the progress values recorded during year for every active goal. Goals without
// data are reported with zero average and zero entries.
func (s *Service) Run(ctx context.Context, year domain.Year) (res *domain.RunETLResponse, err error) {
	defer func() {
		metrics.ETLRuns.WithLabelValues(metrics.Result(err)).Inc()
	}()

	if year < minYear || year > maxYear {
		return nil, constants.NewValidationError("year must be between %d and %d", minYear, maxYear)
	}

	from, to := YearBounds(year)
	progress, err := s.store.AggregateGoalProgress(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("AggregateGoalProgress, year-%d: %w", year, err)
	}

	computedAt := s.now()
	snapshots := make([]*domain.GoalProgressSnapshot, 0, len(progress))
	for _, p := range progress {
		avg := decimal.Zero
		if p.DataEntries > 0 {
			avg = p.SumProgress.Div(decimal.NewFromInt(p.DataEntries)).Round(4)
		}
		snapshots = append(snapshots, &domain.GoalProgressSnapshot{
			GoalID:      p.GoalID,
			Title:       p.Title,
			Year:        year,
			AvgProgress: avg.InexactFloat64(),
			DataEntries: p.DataEntries,
			ComputedAt:  computedAt,
		})
	}

	if len(snapshots) > 0 {
		if err = s.store.UpsertGoalProgressSnapshots(ctx, snapshots); err != nil {
			return nil, fmt.Errorf("UpsertGoalProgressSnapshots: %w", err)
		}
	}

	logger.Infof(ctx, "etl: year %d aggregated for %d goals", year, len(snapshots))

	return &domain.RunETLResponse{Year: year, Results: snapshots}, nil
}
