package memstore

import (
	"context"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store"
)

func (s *Store) ownerExists(owner domain.OwnerType, id int64) bool {
	if owner == domain.OwnerProject {
		return find(s.projects, func(p *domain.Project) bool { return p.ID == id }) != nil
	}
	return find(s.goals, func(g *domain.Goal) bool { return g.ID == id }) != nil
}

func (s *Store) CreateIndicatorBinding(_ context.Context, binding *domain.IndicatorBinding) (*domain.IndicatorBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ind := find(s.indicators, func(i *domain.Indicator) bool { return i.ID == binding.IndicatorID })
	if ind == nil || !s.ownerExists(binding.OwnerType, binding.OwnerID) {
		return nil, constants.ErrInvalidReference
	}
	dup := find(s.indicatorBindings, func(b *domain.IndicatorBinding) bool {
		return b.OwnerType == binding.OwnerType && b.OwnerID == binding.OwnerID && b.IndicatorID == binding.IndicatorID
	})
	if dup != nil {
		return nil, constants.ErrAlreadyExists
	}

	b := copyOf(binding)
	b.ID = s.nextID()
	b.IndicatorName, b.IndicatorDescription = ind.Name, ind.Description
	b.CreatedAt = s.Now()
	s.indicatorBindings = append(s.indicatorBindings, b)
	return copyOf(b), nil
}

func (s *Store) GetIndicatorBinding(_ context.Context, owner domain.OwnerType, id int64) (*domain.IndicatorBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := find(s.indicatorBindings, func(b *domain.IndicatorBinding) bool { return b.OwnerType == owner && b.ID == id })
	if b == nil {
		return nil, constants.ErrDBNotFound
	}
	return copyOf(b), nil
}

func (s *Store) ListIndicatorBindings(_ context.Context, opts store.ListIndicatorBindingsOpts) ([]*domain.IndicatorBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.indicatorBindings, func(b *domain.IndicatorBinding) bool {
		if b.OwnerType != opts.Owner || (opts.OwnerIDs != nil && !contains(opts.OwnerIDs, b.OwnerID)) {
			return false
		}
		if opts.ActiveOnly {
			ind := find(s.indicators, func(i *domain.Indicator) bool { return i.ID == b.IndicatorID })
			return ind != nil && ind.Status == domain.StatusActive
		}
		return true
	}), nil
}

func (s *Store) CreateSubIndicatorBinding(_ context.Context, binding *domain.SubIndicatorBinding) (*domain.SubIndicatorBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := find(s.indicatorBindings, func(b *domain.IndicatorBinding) bool {
		return b.OwnerType == binding.OwnerType && b.ID == binding.ParentBindingID
	})
	sub := find(s.subIndicators, func(si *domain.SubIndicator) bool { return si.ID == binding.SubIndicatorID })
	if parent == nil || sub == nil {
		return nil, constants.ErrInvalidReference
	}
	dup := find(s.subBindings, func(b *domain.SubIndicatorBinding) bool {
		return b.OwnerType == binding.OwnerType && b.ParentBindingID == binding.ParentBindingID && b.SubIndicatorID == binding.SubIndicatorID
	})
	if dup != nil {
		return nil, constants.ErrAlreadyExists
	}

	b := copyOf(binding)
	b.ID = s.nextID()
	b.SubIndicatorName, b.SubIndicatorDescription = sub.Name, sub.Description
	b.CatalogIndicatorID = sub.IndicatorID
	b.CreatedAt = s.Now()
	s.subBindings = append(s.subBindings, b)
	return copyOf(b), nil
}

// PutSubIndicatorBinding stores b as is, bypassing reference checks.
func (s *Store) PutSubIndicatorBinding(b *domain.SubIndicatorBinding) *domain.SubIndicatorBinding {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := copyOf(b)
	c.ID = s.nextID()
	s.subBindings = append(s.subBindings, c)
	return copyOf(c)
}

func (s *Store) GetSubIndicatorBinding(_ context.Context, owner domain.OwnerType, id int64) (*domain.SubIndicatorBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := find(s.subBindings, func(b *domain.SubIndicatorBinding) bool { return b.OwnerType == owner && b.ID == id })
	if b == nil {
		return nil, constants.ErrDBNotFound
	}
	return copyOf(b), nil
}

func (s *Store) ListSubIndicatorBindings(_ context.Context, opts store.ListSubIndicatorBindingsOpts) ([]*domain.SubIndicatorBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.subBindings, func(b *domain.SubIndicatorBinding) bool {
		return b.OwnerType == opts.Owner && (opts.ParentIDs == nil || contains(opts.ParentIDs, b.ParentBindingID))
	}), nil
}

func (s *Store) BindRequiredData(_ context.Context, scope domain.Scope, requiredDataID int64) (*domain.RequiredDataBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rd := find(s.requiredData, func(rd *domain.RequiredData) bool { return rd.ID == requiredDataID })
	if rd == nil {
		return nil, constants.ErrInvalidReference
	}

	existing := find(s.rdBindings, func(b *domain.RequiredDataBinding) bool {
		return b.ScopeType == scope.Type && b.ScopeID == scope.ID && b.RequiredDataID == requiredDataID
	})
	if existing != nil {
		return copyOf(existing), nil
	}

	b := &domain.RequiredDataBinding{
		ID:             s.nextID(),
		ScopeType:      scope.Type,
		ScopeID:        scope.ID,
		RequiredDataID: rd.ID,
		Name:           rd.Name,
		Description:    rd.Description,
		Unit:           rd.Unit,
	}
	s.rdBindings = append(s.rdBindings, b)
	return copyOf(b), nil
}

func (s *Store) ListRequiredDataBindings(
	_ context.Context,
	scopeType domain.ScopeType,
	scopeIDs []int64,
) ([]*domain.RequiredDataBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.rdBindings, func(b *domain.RequiredDataBinding) bool {
		return b.ScopeType == scopeType && (scopeIDs == nil || contains(scopeIDs, b.ScopeID))
	}), nil
}
