package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store/xpgx"
)

type ProjectStore interface {
	CreateProject(ctx context.Context, project *domain.Project, locationIDs []int64) (*domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	ListProjectLocations(ctx context.Context, projectID int64) ([]*domain.Location, error)
	// CompleteProject moves an ongoing project to complete. A complete project is left as is
	// and reported with constants.ErrProjectCompleted.
	CompleteProject(ctx context.Context, id int64) (*domain.Project, error)

	CreateLocation(ctx context.Context, location *domain.Location) (*domain.Location, error)
	ListLocations(ctx context.Context) ([]*domain.Location, error)
}

var (
	projectColumns  = []string{"id", "name", "description", "status", "created_by", "created_at", "updated_at"}
	locationColumns = []string{"id", "name", "region", "latitude", "longitude", "created_at"}
)

func (s *store) CreateProject(ctx context.Context, project *domain.Project, locationIDs []int64) (*domain.Project, error) {
	var created *domain.Project

	err := s.pool.InTx(ctx, func(tx xpgx.Queryx) error {
		query := builder().Insert(tableProjects).
			Columns("name", "description", "status", "created_by").
			Values(project.Name, project.Description, domain.ProjectOngoing, project.CreatedBy).
			Suffix("RETURNING " + joinColumns(projectColumns))

		var err error
		created = new(domain.Project)
		err = tx.Getx(ctx, created, query)
		if err != nil {
			return fmt.Errorf("insert project: %w", wrapErr(err))
		}

		if len(locationIDs) == 0 {
			return nil
		}

		linkQuery := builder().Insert(tableProjectLocations).
			Columns("project_id", "location_id")
		for _, id := range locationIDs {
			linkQuery = linkQuery.Values(created.ID, id)
		}
		linkQuery = linkQuery.Suffix("on conflict do nothing")

		if _, err = tx.Execx(ctx, linkQuery); err != nil {
			return fmt.Errorf("insert project locations: %w", wrapErr(err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *store) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	query := builder().Select(projectColumns...).
		From(tableProjects).
		Where(sq.Eq{"id": id})

	selected := new(domain.Project)
	err := s.pool.Getx(ctx, selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	query := builder().Select(projectColumns...).
		From(tableProjects).
		OrderBy("id")

	var selected []*domain.Project
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListProjectLocations(ctx context.Context, projectID int64) ([]*domain.Location, error) {
	query := builder().Select(prefixColumns("l", locationColumns)...).
		From(tableProjectLocations + " pl").
		Join(tableLocations + " l on l.id = pl.location_id").
		Where(sq.Eq{"pl.project_id": projectID}).
		OrderBy("l.id")

	var selected []*domain.Location
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CompleteProject(ctx context.Context, id int64) (*domain.Project, error) {
	query := builder().Update(tableProjects).
		Set("status", domain.ProjectComplete).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "status": domain.ProjectOngoing}).
		Suffix("RETURNING " + joinColumns(projectColumns))

	var updated []*domain.Project
	err := s.pool.Selectx(ctx, &updated, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	if len(updated) == 1 {
		return updated[0], nil
	}

	// Nothing changed: the project is either missing or already complete.
	if _, err = s.GetProject(ctx, id); err != nil {
		return nil, err
	}

	return nil, constants.ErrProjectCompleted
}

func (s *store) CreateLocation(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	query := builder().Insert(tableLocations).
		Columns("name", "region", "latitude", "longitude").
		Values(location.Name, location.Region, location.Latitude, location.Longitude).
		Suffix("RETURNING " + joinColumns(locationColumns))

	created := new(domain.Location)
	err := s.pool.Getx(ctx, created, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	query := builder().Select(locationColumns...).
		From(tableLocations).
		OrderBy("id")

	var selected []*domain.Location
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
