package projects

import (
	"context"
	"fmt"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/domain/dto"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/ougirez/sdgdash/internal/service/auth"
	"github.com/ougirez/sdgdash/internal/service/hierarchy"
	"golang.org/x/sync/errgroup"
)

const locationFetchLimit = 8

type Service struct {
	store     store.Store
	hierarchy *hierarchy.Service
}

func NewService(store store.Store, hierarchy *hierarchy.Service) *Service {
	return &Service{store: store, hierarchy: hierarchy}
}

func (s *Service) CreateProject(ctx context.Context, request *domain.CreateProjectRequest) (*dto.Project, error) {
	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil, constants.ErrUnauthorized
	}

	project, err := s.store.CreateProject(ctx, &domain.Project{
		Name:        request.Name,
		Description: request.Description,
		CreatedBy:   session.UserID,
	}, request.LocationIDs)
	if err != nil {
		return nil, fmt.Errorf("CreateProject: %w", err)
	}

	locations, err := s.store.ListProjectLocations(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("ListProjectLocations: %w", err)
	}

	logger.Infof(ctx, "project %d created by user %d", project.ID, session.UserID)

	return &dto.Project{
		Project:    *project,
		Locations:  locations,
		Indicators: []*dto.Indicator{},
	}, nil
}

// ListProjects returns every project with its locations. Location reads run concurrently, one per project,
// and are joined before the result is built.
func (s *Service) ListProjects(ctx context.Context) ([]*dto.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListProjects: %w", err)
	}

	locations := make([][]*domain.Location, len(projects))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(locationFetchLimit)
	for i, p := range projects {
		i, p := i, p
		eg.Go(func() error {
			res, err := s.store.ListProjectLocations(egCtx, p.ID)
			if err != nil {
				return fmt.Errorf("ListProjectLocations, project-%d: %w", p.ID, err)
			}
			locations[i] = res
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	res := make([]*dto.Project, 0, len(projects))
	for i, p := range projects {
		res = append(res, &dto.Project{
			Project:    *p,
			Locations:  locations[i],
			Indicators: []*dto.Indicator{},
		})
	}

	return res, nil
}

// GetProject returns one project with its locations and indicator tree.
func (s *Service) GetProject(ctx context.Context, id int64) (*dto.Project, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetProject, id-%d: %w", id, err)
	}

	var (
		locations []*domain.Location
		tree      map[int64][]*dto.Indicator
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		locations, err = s.store.ListProjectLocations(egCtx, id)
		if err != nil {
			return fmt.Errorf("ListProjectLocations: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		tree, err = s.hierarchy.Tree(egCtx, domain.OwnerProject, []int64{id})
		return err
	})
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	return &dto.Project{
		Project:    *project,
		Locations:  locations,
		Indicators: hierarchy.IndicatorsOf(tree, id),
	}, nil
}

func (s *Service) AddIndicatorToProject(
	ctx context.Context,
	projectID int64,
	request *domain.AddIndicatorRequest,
) (*domain.IndicatorBinding, error) {
	return s.hierarchy.AddIndicator(ctx, domain.OwnerProject, projectID, request)
}

func (s *Service) AddSubIndicatorToProjectIndicator(
	ctx context.Context,
	projectIndicatorID int64,
	request *domain.AddSubIndicatorRequest,
) (*domain.SubIndicatorBinding, error) {
	return s.hierarchy.AddSubIndicator(ctx, domain.OwnerProject, projectIndicatorID, request)
}

// CompleteProject marks an ongoing project complete. There is no way back to ongoing.
func (s *Service) CompleteProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.store.CompleteProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("CompleteProject, id-%d: %w", id, err)
	}

	logger.Infof(ctx, "project %d completed", id)

	return project, nil
}

func (s *Service) CreateLocation(ctx context.Context, request *domain.CreateLocationRequest) (*domain.Location, error) {
	location, err := s.store.CreateLocation(ctx, &domain.Location{
		Name:      request.Name,
		Region:    request.Region,
		Latitude:  request.Latitude,
		Longitude: request.Longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("CreateLocation: %w", err)
	}
	return location, nil
}

func (s *Service) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	res, err := s.store.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListLocations: %w", err)
	}
	return res, nil
}
