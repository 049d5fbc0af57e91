package memstore

import (
	"context"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
)

func (s *Store) CreateProject(_ context.Context, project *domain.Project, locationIDs []int64) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range locationIDs {
		if find(s.locations, func(l *domain.Location) bool { return l.ID == id }) == nil {
			return nil, constants.ErrInvalidReference
		}
	}

	p := copyOf(project)
	p.ID = s.nextID()
	p.Status = domain.ProjectOngoing
	p.CreatedAt, p.UpdatedAt = s.Now(), s.Now()
	s.projects = append(s.projects, p)

	for _, id := range locationIDs {
		if !contains(s.projectLocations[p.ID], id) {
			s.projectLocations[p.ID] = append(s.projectLocations[p.ID], id)
		}
	}
	return copyOf(p), nil
}

func (s *Store) GetProject(_ context.Context, id int64) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := find(s.projects, func(p *domain.Project) bool { return p.ID == id }); p != nil {
		return copyOf(p), nil
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) ListProjects(_ context.Context) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.projects, nil), nil
}

func (s *Store) ListProjectLocations(_ context.Context, projectID int64) ([]*domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.projectLocations[projectID]
	res := copyAll(s.locations, func(l *domain.Location) bool { return contains(ids, l.ID) })
	sortByID(res, func(l *domain.Location) int64 { return l.ID })
	return res, nil
}

func (s *Store) CompleteProject(_ context.Context, id int64) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := find(s.projects, func(p *domain.Project) bool { return p.ID == id })
	if p == nil {
		return nil, constants.ErrDBNotFound
	}
	if p.Status != domain.ProjectOngoing {
		return nil, constants.ErrProjectCompleted
	}
	p.Status, p.UpdatedAt = domain.ProjectComplete, s.Now()
	return copyOf(p), nil
}

func (s *Store) CreateLocation(_ context.Context, location *domain.Location) (*domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := copyOf(location)
	l.ID = s.nextID()
	l.CreatedAt = s.Now()
	s.locations = append(s.locations, l)
	return copyOf(l), nil
}

func (s *Store) ListLocations(_ context.Context) ([]*domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.locations, nil), nil
}
