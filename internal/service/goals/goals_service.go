package goals

import (
	"context"
	"fmt"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/domain/dto"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/ougirez/sdgdash/internal/service/auth"
	"github.com/ougirez/sdgdash/internal/service/hierarchy"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	store     store.Store
	hierarchy *hierarchy.Service
}

func NewService(store store.Store, hierarchy *hierarchy.Service) *Service {
	return &Service{store: store, hierarchy: hierarchy}
}

// GetGoalsInformation returns every active goal with its fully materialized indicator tree,
// goals ordered by id.
func (s *Service) GetGoalsInformation(ctx context.Context) ([]*dto.Goal, error) {
	var (
		goals []*domain.Goal
		rows  hierarchy.Rows
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		goals, err = s.store.ListGoals(egCtx)
		if err != nil {
			return fmt.Errorf("ListGoals: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		rows, err = s.hierarchy.LoadRows(egCtx, domain.OwnerGoal, nil)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	tree := hierarchy.Assemble(ctx, rows)

	res := make([]*dto.Goal, 0, len(goals))
	for _, g := range goals {
		res = append(res, &dto.Goal{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Indicators:  hierarchy.IndicatorsOf(tree, g.ID),
		})
	}

	return res, nil
}

// GetAvailableIndicators returns the active catalog indicators not bound to the goal yet.
func (s *Service) GetAvailableIndicators(ctx context.Context, goalID int64) ([]*domain.Indicator, error) {
	if _, err := s.store.GetGoal(ctx, goalID); err != nil {
		return nil, fmt.Errorf("GetGoal, id-%d: %w", goalID, err)
	}

	var (
		catalog  []*domain.Indicator
		bindings []*domain.IndicatorBinding
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		active := domain.StatusActive
		var err error
		catalog, err = s.store.ListIndicators(egCtx, store.ListIndicatorsOpts{Status: &active})
		if err != nil {
			return fmt.Errorf("ListIndicators: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		bindings, err = s.store.ListIndicatorBindings(egCtx, store.ListIndicatorBindingsOpts{
			Owner:    domain.OwnerGoal,
			OwnerIDs: []int64{goalID},
		})
		if err != nil {
			return fmt.Errorf("ListIndicatorBindings: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	bound := make(map[int64]struct{}, len(bindings))
	for _, b := range bindings {
		bound[b.IndicatorID] = struct{}{}
	}

	res := make([]*domain.Indicator, 0, len(catalog))
	for _, ind := range catalog {
		if _, ok := bound[ind.ID]; !ok {
			res = append(res, ind)
		}
	}

	return res, nil
}

func (s *Service) AddIndicatorToGoal(
	ctx context.Context,
	goalID int64,
	request *domain.AddIndicatorRequest,
) (*domain.IndicatorBinding, error) {
	return s.hierarchy.AddIndicator(ctx, domain.OwnerGoal, goalID, request)
}

func (s *Service) AddSubIndicatorToGoalIndicator(
	ctx context.Context,
	goalIndicatorID int64,
	request *domain.AddSubIndicatorRequest,
) (*domain.SubIndicatorBinding, error) {
	return s.hierarchy.AddSubIndicator(ctx, domain.OwnerGoal, goalIndicatorID, request)
}

// CreateGoalDescription stores an explanation for a goal indicator on behalf of the session user.
func (s *Service) CreateGoalDescription(
	ctx context.Context,
	request *domain.CreateGoalDescriptionRequest,
) (*domain.GoalDescription, error) {
	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil, constants.ErrUnauthorized
	}

	if _, err := s.store.GetIndicatorBinding(ctx, domain.OwnerGoal, request.GoalIndicatorID); err != nil {
		return nil, fmt.Errorf("GetIndicatorBinding, id-%d: %w", request.GoalIndicatorID, err)
	}

	created, err := s.store.CreateGoalDescription(ctx, &domain.GoalDescription{
		GoalIndicatorID: request.GoalIndicatorID,
		Explanation:     request.Explanation,
		CreatedBy:       session.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("CreateGoalDescription: %w", err)
	}

	return created, nil
}

func (s *Service) ListGoalDescriptions(ctx context.Context, goalIndicatorID int64) ([]*domain.GoalDescription, error) {
	res, err := s.store.ListGoalDescriptions(ctx, goalIndicatorID)
	if err != nil {
		return nil, fmt.Errorf("ListGoalDescriptions: %w", err)
	}
	return res, nil
}

// GetSDGData flattens the goal tree for the dashboard: per goal the averaged indicator target,
// the yearly ETL snapshots and, per indicator, the history of computed values.
func (s *Service) GetSDGData(ctx context.Context) ([]*dto.SDGGoal, error) {
	var (
		goals     []*dto.Goal
		snapshots []*domain.GoalProgressSnapshot
		computed  []*domain.ComputedValue
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		goals, err = s.GetGoalsInformation(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		snapshots, err = s.store.ListGoalProgressSnapshots(egCtx, nil)
		if err != nil {
			return fmt.Errorf("ListGoalProgressSnapshots: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		computed, err = s.store.ListComputedValues(egCtx, domain.ScopeGoalIndicator, nil)
		if err != nil {
			return fmt.Errorf("ListComputedValues: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	snapshotsByGoal := make(map[int64][]*dto.YearValue)
	for _, snap := range snapshots {
		snapshotsByGoal[snap.GoalID] = append(snapshotsByGoal[snap.GoalID], &dto.YearValue{
			Year:  snap.Year,
			Value: snap.AvgProgress,
		})
	}

	valuesByBinding := make(map[int64][]*dto.ValuePoint)
	for _, v := range computed {
		valuesByBinding[v.ScopeID] = append(valuesByBinding[v.ScopeID], &dto.ValuePoint{
			Date:  v.CreatedAt,
			Value: v.Value,
		})
	}

	res := make([]*dto.SDGGoal, 0, len(goals))
	for _, g := range goals {
		item := &dto.SDGGoal{
			GoalID:             g.ID,
			Title:              g.Name,
			GlobalCurrentValue: snapshotsByGoal[g.ID],
			Indicators:         make([]*dto.SDGIndicator, 0, len(g.Indicators)),
		}
		if item.GlobalCurrentValue == nil {
			item.GlobalCurrentValue = []*dto.YearValue{}
		}

		targetSum := decimal.Zero
		for _, ind := range g.Indicators {
			targetSum = targetSum.Add(decimal.NewFromFloat(ind.Target))

			current := valuesByBinding[ind.ID]
			if current == nil {
				current = []*dto.ValuePoint{}
			}
			item.Indicators = append(item.Indicators, &dto.SDGIndicator{
				ID:            ind.ID,
				Name:          ind.Name,
				BaselineValue: ind.Baseline,
				TargetValue:   ind.Target,
				CurrentValue:  current,
			})
		}
		if n := len(g.Indicators); n > 0 {
			item.GlobalTargetValue = targetSum.Div(decimal.NewFromInt(int64(n))).Round(4).InexactFloat64()
		}

		res = append(res, item)
	}

	return res, nil
}
