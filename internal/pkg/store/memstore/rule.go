package memstore

import (
	"context"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
)

func (s *Store) GetComputationRule(_ context.Context, id int64) (*domain.ComputationRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r := find(s.rules, func(r *domain.ComputationRule) bool { return r.ID == id }); r != nil {
		return copyOf(r), nil
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) ListComputationRules(
	_ context.Context,
	scopeType domain.ScopeType,
	scopeIDs []int64,
) ([]*domain.ComputationRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.rules, func(r *domain.ComputationRule) bool {
		return r.ScopeType == scopeType && (scopeIDs == nil || contains(scopeIDs, r.ScopeID))
	}), nil
}

func (s *Store) ruleByScope(scopeType domain.ScopeType, scopeID int64) *domain.ComputationRule {
	return find(s.rules, func(r *domain.ComputationRule) bool { return r.ScopeType == scopeType && r.ScopeID == scopeID })
}

func (s *Store) upsertRule(rule *domain.ComputationRule, inherited bool) *domain.ComputationRule {
	existing := s.ruleByScope(rule.ScopeType, rule.ScopeID)
	if existing == nil {
		r := copyOf(rule)
		r.ID = s.nextID()
		r.Inherited = inherited
		r.UpdatedAt = s.Now()
		s.rules = append(s.rules, r)
		return copyOf(r)
	}
	if inherited && !existing.Inherited {
		return nil
	}
	existing.Formula = rule.Formula
	existing.Inherited = inherited
	existing.CreatedBy = rule.CreatedBy
	existing.UpdatedAt = s.Now()
	return copyOf(existing)
}

func (s *Store) ReplaceComputationRule(
	_ context.Context,
	rule *domain.ComputationRule,
	inherited []*domain.ComputationRule,
) (*domain.ComputationRule, []*domain.ComputationRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	explicit := s.upsertRule(rule, false)
	written := make([]*domain.ComputationRule, 0, len(inherited))
	for _, child := range inherited {
		if r := s.upsertRule(child, true); r != nil {
			written = append(written, r)
		}
	}
	return explicit, written, nil
}
