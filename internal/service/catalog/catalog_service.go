package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/ougirez/sdgdash/internal/service/rules"
)

type Service struct {
	store      store.Store
	httpClient *http.Client
}

func NewService(store store.Store) *Service {
	return &Service{
		store:      store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *Service) CreateGoal(ctx context.Context, request *domain.CreateGoalRequest) (*domain.Goal, error) {
	goal, err := s.store.CreateGoal(ctx, &domain.Goal{
		ID:          request.ID,
		Name:        request.Name,
		Description: request.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("CreateGoal: %w", err)
	}
	return goal, nil
}

func (s *Service) CreateIndicator(ctx context.Context, request *domain.CreateIndicatorRequest) (*domain.Indicator, error) {
	indicator, err := s.store.CreateIndicator(ctx, &domain.Indicator{
		Name:        request.Name,
		Description: request.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("CreateIndicator: %w", err)
	}
	return indicator, nil
}

// ListIndicators returns the whole catalog, inactive indicators included.
func (s *Service) ListIndicators(ctx context.Context) ([]*domain.Indicator, error) {
	res, err := s.store.ListIndicators(ctx, store.ListIndicatorsOpts{})
	if err != nil {
		return nil, fmt.Errorf("ListIndicators: %w", err)
	}
	return res, nil
}

func (s *Service) SetIndicatorStatus(ctx context.Context, id int64, status domain.Status) error {
	if !status.Valid() {
		return constants.NewValidationError("unknown status %q", status)
	}

	if err := s.store.SetIndicatorStatus(ctx, id, status); err != nil {
		return fmt.Errorf("SetIndicatorStatus, id-%d: %w", id, err)
	}

	logger.Infof(ctx, "indicator %d is now %s", id, status)

	return nil
}

func (s *Service) CreateSubIndicator(
	ctx context.Context,
	indicatorID int64,
	request *domain.CreateIndicatorRequest,
) (*domain.SubIndicator, error) {
	if _, err := s.store.GetIndicator(ctx, indicatorID); err != nil {
		return nil, fmt.Errorf("GetIndicator, id-%d: %w", indicatorID, err)
	}

	sub, err := s.store.CreateSubIndicator(ctx, &domain.SubIndicator{
		IndicatorID: indicatorID,
		Name:        request.Name,
		Description: request.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("CreateSubIndicator: %w", err)
	}
	return sub, nil
}

func (s *Service) ListSubIndicators(ctx context.Context, indicatorID int64) ([]*domain.SubIndicator, error) {
	if _, err := s.store.GetIndicator(ctx, indicatorID); err != nil {
		return nil, fmt.Errorf("GetIndicator, id-%d: %w", indicatorID, err)
	}

	res, err := s.store.ListSubIndicators(ctx, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("ListSubIndicators: %w", err)
	}
	return res, nil
}

func (s *Service) CreateRequiredData(ctx context.Context, request *domain.CreateRequiredDataRequest) (*domain.RequiredData, error) {
	if !rules.IsSlotName(request.Name) {
		return nil, constants.NewValidationError("%q cannot be used as a required data name", request.Name)
	}

	rd, err := s.store.CreateRequiredData(ctx, &domain.RequiredData{
		Name:        request.Name,
		Description: request.Description,
		Unit:        request.Unit,
	})
	if err != nil {
		return nil, fmt.Errorf("CreateRequiredData: %w", err)
	}
	return rd, nil
}

func (s *Service) ListRequiredData(ctx context.Context) ([]*domain.RequiredData, error) {
	res, err := s.store.ListRequiredData(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRequiredData: %w", err)
	}
	return res, nil
}
