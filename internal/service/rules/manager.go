// Package rules manages the single computation rule of each indicator or sub-indicator binding.
package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/metrics"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/ougirez/sdgdash/internal/service/auth"
	"github.com/ougirez/sdgdash/internal/service/hierarchy"
)

type UpdateResult struct {
	Rule *domain.ComputationRule `json:"rule"`
	// Cascaded holds the sub-indicator rules written by the cascade.
	Cascaded []*domain.ComputationRule `json:"cascaded"`
}

type Manager struct {
	store     store.Store
	hierarchy *hierarchy.Service
}

func NewManager(store store.Store, hierarchy *hierarchy.Service) *Manager {
	return &Manager{store: store, hierarchy: hierarchy}
}

func (m *Manager) session(ctx context.Context) (*domain.Session, error) {
	session, _ := auth.SessionFromContext(ctx)
	if err := auth.Authorize(session, auth.CapEditComputationRules); err != nil {
		return nil, err
	}
	return session, nil
}

func (m *Manager) checkScope(ctx context.Context, scope domain.Scope, formula string) error {
	slots, err := m.hierarchy.SlotNames(ctx, scope.Type, []int64{scope.ID})
	if err != nil {
		return err
	}
	if err = CheckFormula(formula, slots[scope.ID]); err != nil {
		return constants.NewValidationError("%s: %s", scope, err.Error())
	}
	return nil
}

// UpdateIndicatorComputationRule replaces the rule of an indicator binding. With cascade, every
// child sub-indicator binding without an explicit rule of its own receives the same formula;
// if any of them lacks a slot the formula references, nothing is written.
func (m *Manager) UpdateIndicatorComputationRule(
	ctx context.Context,
	owner domain.OwnerType,
	bindingID int64,
	formula string,
	cascade bool,
) (*UpdateResult, error) {
	session, err := m.session(ctx)
	if err != nil {
		return nil, err
	}
	formula = strings.TrimSpace(formula)

	binding, err := m.store.GetIndicatorBinding(ctx, owner, bindingID)
	if err != nil {
		return nil, fmt.Errorf("GetIndicatorBinding, id-%d: %w", bindingID, err)
	}

	scope := domain.Scope{Type: owner.IndicatorScope(), ID: binding.ID}
	if err = m.checkScope(ctx, scope, formula); err != nil {
		return nil, err
	}

	var inherited []*domain.ComputationRule
	if cascade {
		inherited, err = m.cascadeTargets(ctx, owner, binding.ID, formula, session.UserID)
		if err != nil {
			return nil, err
		}
	}

	rule, written, err := m.store.ReplaceComputationRule(ctx, &domain.ComputationRule{
		ScopeType: scope.Type,
		ScopeID:   scope.ID,
		Formula:   formula,
		CreatedBy: session.UserID,
	}, inherited)
	if err != nil {
		return nil, fmt.Errorf("ReplaceComputationRule: %w", err)
	}

	metrics.RulesWritten.WithLabelValues("explicit").Inc()
	metrics.RulesWritten.WithLabelValues("inherited").Add(float64(len(written)))
	logger.Infof(ctx, "rules: %s updated by user %d, cascaded to %d sub-indicators", scope, session.UserID, len(written))

	return &UpdateResult{Rule: rule, Cascaded: written}, nil
}

func (m *Manager) cascadeTargets(
	ctx context.Context,
	owner domain.OwnerType,
	parentID int64,
	formula string,
	userID int64,
) ([]*domain.ComputationRule, error) {
	children, err := m.store.ListSubIndicatorBindings(ctx, store.ListSubIndicatorBindingsOpts{
		Owner:     owner,
		ParentIDs: []int64{parentID},
	})
	if err != nil {
		return nil, fmt.Errorf("ListSubIndicatorBindings: %w", err)
	}
	if len(children) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}

	existing, err := m.store.ListComputationRules(ctx, owner.SubIndicatorScope(), ids)
	if err != nil {
		return nil, fmt.Errorf("ListComputationRules: %w", err)
	}
	explicit := make(map[int64]bool, len(existing))
	for _, r := range existing {
		explicit[r.ScopeID] = !r.Inherited
	}

	slots, err := m.hierarchy.SlotNames(ctx, owner.SubIndicatorScope(), ids)
	if err != nil {
		return nil, err
	}

	res := make([]*domain.ComputationRule, 0, len(children))
	for _, c := range children {
		if explicit[c.ID] {
			continue
		}
		if err = CheckFormula(formula, slots[c.ID]); err != nil {
			return nil, constants.NewValidationError("cascade to sub-indicator binding %d: %s", c.ID, err.Error())
		}
		res = append(res, &domain.ComputationRule{
			ScopeType: owner.SubIndicatorScope(),
			ScopeID:   c.ID,
			Formula:   formula,
			CreatedBy: userID,
		})
	}

	return res, nil
}

// UpdateSubIndicatorComputationRule replaces the rule of a sub-indicator binding. The result is an
// explicit rule that later cascades leave alone.
func (m *Manager) UpdateSubIndicatorComputationRule(
	ctx context.Context,
	owner domain.OwnerType,
	bindingID int64,
	formula string,
) (*UpdateResult, error) {
	session, err := m.session(ctx)
	if err != nil {
		return nil, err
	}
	formula = strings.TrimSpace(formula)

	binding, err := m.store.GetSubIndicatorBinding(ctx, owner, bindingID)
	if err != nil {
		return nil, fmt.Errorf("GetSubIndicatorBinding, id-%d: %w", bindingID, err)
	}

	scope := domain.Scope{Type: owner.SubIndicatorScope(), ID: binding.ID}
	if err = m.checkScope(ctx, scope, formula); err != nil {
		return nil, err
	}

	rule, _, err := m.store.ReplaceComputationRule(ctx, &domain.ComputationRule{
		ScopeType: scope.Type,
		ScopeID:   scope.ID,
		Formula:   formula,
		CreatedBy: session.UserID,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("ReplaceComputationRule: %w", err)
	}

	metrics.RulesWritten.WithLabelValues("explicit").Inc()
	logger.Infof(ctx, "rules: %s updated by user %d", scope, session.UserID)

	return &UpdateResult{Rule: rule, Cascaded: []*domain.ComputationRule{}}, nil
}

func (m *Manager) ListRules(ctx context.Context, scopeType domain.ScopeType) ([]*domain.ComputationRule, error) {
	res, err := m.store.ListComputationRules(ctx, scopeType, nil)
	if err != nil {
		return nil, fmt.Errorf("ListComputationRules: %w", err)
	}
	return res, nil
}
