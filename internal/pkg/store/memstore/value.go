package memstore

import (
	"context"
	"sort"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store"
)

func (s *Store) InsertRequiredDataValues(
	_ context.Context,
	values []*domain.RequiredDataValue,
) ([]*domain.RequiredDataValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range values {
		if find(s.requiredData, func(rd *domain.RequiredData) bool { return rd.ID == v.RequiredDataID }) == nil {
			return nil, constants.ErrInvalidReference
		}
	}

	inserted := make([]*domain.RequiredDataValue, 0, len(values))
	for _, v := range values {
		c := copyOf(v)
		c.ID = s.nextID()
		s.values = append(s.values, c)
		inserted = append(inserted, copyOf(c))
	}
	return inserted, nil
}

func (s *Store) ListRequiredDataValues(_ context.Context, opts store.ListValuesOpts) ([]*domain.RequiredDataValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := copyAll(s.values, func(v *domain.RequiredDataValue) bool {
		if v.ScopeType != opts.ScopeType {
			return false
		}
		if opts.ScopeIDs != nil && !contains(opts.ScopeIDs, v.ScopeID) {
			return false
		}
		return opts.Kind == nil || v.Kind == *opts.Kind
	})
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *Store) InsertComputedValue(_ context.Context, value *domain.ComputedValue) (*domain.ComputedValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if find(s.rules, func(r *domain.ComputationRule) bool { return r.ID == value.RuleID }) == nil {
		return nil, constants.ErrInvalidReference
	}

	c := copyOf(value)
	c.ID = s.nextID()
	s.computed = append(s.computed, c)
	return copyOf(c), nil
}

func (s *Store) ListComputedValues(
	_ context.Context,
	scopeType domain.ScopeType,
	scopeIDs []int64,
) ([]*domain.ComputedValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := copyAll(s.computed, func(v *domain.ComputedValue) bool {
		return v.ScopeType == scopeType && (scopeIDs == nil || contains(scopeIDs, v.ScopeID))
	})
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}
