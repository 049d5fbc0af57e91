package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/domain/dto"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

// Service owns the indicator bindings shared by goals and projects.
type Service struct {
	store store.Store
}

func NewService(store store.Store) *Service {
	return &Service{store: store}
}

// LoadRows reads every row needed to build the indicator trees of the given owners concurrently.
// Nil ownerIDs means all owners of the type. Bindings of inactive indicators are left out.
func (s *Service) LoadRows(ctx context.Context, owner domain.OwnerType, ownerIDs []int64) (Rows, error) {
	var (
		rows         Rows
		indicatorIDs []int64
		subIDs       []int64
	)

	eg, egCtx := errgroup.WithContext(ctx)

	listIndicators := func(ctx context.Context) error {
		res, err := s.store.ListIndicatorBindings(ctx, store.ListIndicatorBindingsOpts{
			Owner:      owner,
			OwnerIDs:   ownerIDs,
			ActiveOnly: true,
		})
		if err != nil {
			return fmt.Errorf("ListIndicatorBindings: %w", err)
		}
		rows.Indicators = res
		return nil
	}
	listSubIndicators := func(ctx context.Context) error {
		res, err := s.store.ListSubIndicatorBindings(ctx, store.ListSubIndicatorBindingsOpts{Owner: owner, ParentIDs: indicatorIDs})
		if err != nil {
			return fmt.Errorf("ListSubIndicatorBindings: %w", err)
		}
		rows.SubIndicators = res
		return nil
	}

	if ownerIDs == nil {
		// Unfiltered reads do not depend on each other.
		eg.Go(func() error { return listIndicators(egCtx) })
		eg.Go(func() error { return listSubIndicators(egCtx) })
	} else {
		if err := listIndicators(ctx); err != nil {
			return rows, err
		}
		indicatorIDs = make([]int64, 0, len(rows.Indicators))
		for _, b := range rows.Indicators {
			indicatorIDs = append(indicatorIDs, b.ID)
		}

		if err := listSubIndicators(ctx); err != nil {
			return rows, err
		}
		subIDs = make([]int64, 0, len(rows.SubIndicators))
		for _, b := range rows.SubIndicators {
			subIDs = append(subIDs, b.ID)
		}
	}

	eg.Go(func() error {
		res, err := s.store.ListRequiredDataBindings(egCtx, owner.IndicatorScope(), indicatorIDs)
		if err != nil {
			return fmt.Errorf("ListRequiredDataBindings, scope-%s: %w", owner.IndicatorScope(), err)
		}
		rows.IndicatorData = res
		return nil
	})
	eg.Go(func() error {
		res, err := s.store.ListRequiredDataBindings(egCtx, owner.SubIndicatorScope(), subIDs)
		if err != nil {
			return fmt.Errorf("ListRequiredDataBindings, scope-%s: %w", owner.SubIndicatorScope(), err)
		}
		rows.SubIndicatorData = res
		return nil
	})
	eg.Go(func() error {
		res, err := s.store.ListComputationRules(egCtx, owner.IndicatorScope(), indicatorIDs)
		if err != nil {
			return fmt.Errorf("ListComputationRules, scope-%s: %w", owner.IndicatorScope(), err)
		}
		rows.IndicatorRules = res
		return nil
	})
	eg.Go(func() error {
		res, err := s.store.ListComputationRules(egCtx, owner.SubIndicatorScope(), subIDs)
		if err != nil {
			return fmt.Errorf("ListComputationRules, scope-%s: %w", owner.SubIndicatorScope(), err)
		}
		rows.SubIndicatorRules = res
		return nil
	})

	if err := eg.Wait(); err != nil {
		return rows, err
	}

	return rows, nil
}

// Tree is LoadRows followed by Assemble.
func (s *Service) Tree(ctx context.Context, owner domain.OwnerType, ownerIDs []int64) (map[int64][]*dto.Indicator, error) {
	rows, err := s.LoadRows(ctx, owner, ownerIDs)
	if err != nil {
		return nil, err
	}
	return Assemble(ctx, rows), nil
}

func (s *Service) checkOwner(ctx context.Context, owner domain.OwnerType, ownerID int64) error {
	var err error
	if owner == domain.OwnerProject {
		_, err = s.store.GetProject(ctx, ownerID)
	} else {
		_, err = s.store.GetGoal(ctx, ownerID)
	}
	if err != nil {
		return fmt.Errorf("%s %d: %w", owner, ownerID, err)
	}
	return nil
}

func (s *Service) AddIndicator(
	ctx context.Context,
	owner domain.OwnerType,
	ownerID int64,
	request *domain.AddIndicatorRequest,
) (*domain.IndicatorBinding, error) {
	if err := s.checkOwner(ctx, owner, ownerID); err != nil {
		return nil, err
	}

	indicator, err := s.store.GetIndicator(ctx, request.IndicatorID)
	if errors.Is(err, constants.ErrDBNotFound) {
		return nil, constants.NewValidationError("indicator %d does not exist", request.IndicatorID)
	}
	if err != nil {
		return nil, fmt.Errorf("GetIndicator: %w", err)
	}
	if indicator.Status != domain.StatusActive {
		return nil, constants.NewValidationError("indicator %d is inactive", indicator.ID)
	}

	binding, err := s.store.CreateIndicatorBinding(ctx, &domain.IndicatorBinding{
		OwnerType:   owner,
		OwnerID:     ownerID,
		IndicatorID: indicator.ID,
		Baseline:    request.Baseline,
		Target:      request.Target,
	})
	if err != nil {
		return nil, fmt.Errorf("CreateIndicatorBinding: %w", err)
	}

	logger.Infof(ctx, "indicator %d bound to %s %d as %d", indicator.ID, owner, ownerID, binding.ID)

	return binding, nil
}

// AddSubIndicator binds a sub-indicator below an indicator binding. The sub-indicator must be
// cataloged under the indicator of that binding.
func (s *Service) AddSubIndicator(
	ctx context.Context,
	owner domain.OwnerType,
	parentID int64,
	request *domain.AddSubIndicatorRequest,
) (*domain.SubIndicatorBinding, error) {
	parent, err := s.store.GetIndicatorBinding(ctx, owner, parentID)
	if err != nil {
		return nil, fmt.Errorf("GetIndicatorBinding, id-%d: %w", parentID, err)
	}

	sub, err := s.store.GetSubIndicator(ctx, request.SubIndicatorID)
	if errors.Is(err, constants.ErrDBNotFound) {
		return nil, constants.NewValidationError("sub-indicator %d does not exist", request.SubIndicatorID)
	}
	if err != nil {
		return nil, fmt.Errorf("GetSubIndicator: %w", err)
	}
	if sub.IndicatorID != parent.IndicatorID {
		return nil, constants.NewValidationError(
			"sub-indicator %d belongs to indicator %d, not %d", sub.ID, sub.IndicatorID, parent.IndicatorID)
	}

	binding, err := s.store.CreateSubIndicatorBinding(ctx, &domain.SubIndicatorBinding{
		OwnerType:       owner,
		ParentBindingID: parent.ID,
		SubIndicatorID:  sub.ID,
		Baseline:        request.Baseline,
		Target:          request.Target,
	})
	if err != nil {
		return nil, fmt.Errorf("CreateSubIndicatorBinding: %w", err)
	}

	return binding, nil
}

// CheckScope returns constants.ErrDBNotFound when the scope does not point at an existing binding.
func (s *Service) CheckScope(ctx context.Context, scope domain.Scope) error {
	var err error
	if scope.Type.IsSubIndicator() {
		_, err = s.store.GetSubIndicatorBinding(ctx, scope.Type.Owner(), scope.ID)
	} else {
		_, err = s.store.GetIndicatorBinding(ctx, scope.Type.Owner(), scope.ID)
	}
	if err != nil {
		return fmt.Errorf("scope %s: %w", scope, err)
	}
	return nil
}

func (s *Service) BindRequiredData(ctx context.Context, request *domain.BindRequiredDataRequest) (*domain.RequiredDataBinding, error) {
	scope := domain.Scope{Type: request.ScopeType, ID: request.ScopeID}
	if err := s.CheckScope(ctx, scope); err != nil {
		return nil, err
	}

	binding, err := s.store.BindRequiredData(ctx, scope, request.RequiredDataID)
	if err != nil {
		return nil, fmt.Errorf("BindRequiredData: %w", err)
	}

	return binding, nil
}

// SlotNames returns the names of the required-data slots bound to each scope id.
func (s *Service) SlotNames(ctx context.Context, scopeType domain.ScopeType, scopeIDs []int64) (map[int64][]string, error) {
	bindings, err := s.store.ListRequiredDataBindings(ctx, scopeType, scopeIDs)
	if err != nil {
		return nil, fmt.Errorf("ListRequiredDataBindings: %w", err)
	}

	res := make(map[int64][]string, len(scopeIDs))
	for _, id := range scopeIDs {
		res[id] = []string{}
	}
	for _, b := range bindings {
		res[b.ScopeID] = append(res[b.ScopeID], b.Name)
	}
	return res, nil
}
