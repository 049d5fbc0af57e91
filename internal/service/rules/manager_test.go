package rules

import (
	"context"
	"testing"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store/memstore"
	"github.com/ougirez/sdgdash/internal/service/auth"
	"github.com/ougirez/sdgdash/internal/service/hierarchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memstore.Store
	manager *Manager
	ctx     context.Context
	gi      *domain.IndicatorBinding
	subs    []*domain.SubIndicatorBinding
	poor    *domain.RequiredData
	total   *domain.RequiredData
}

// newFixture builds one goal indicator with three sub-indicators. The indicator and every
// sub-indicator have both slots bound.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	h := hierarchy.NewService(st)
	ctx := context.Background()

	goal, err := st.CreateGoal(ctx, &domain.Goal{ID: 1, Name: "No poverty"})
	require.NoError(t, err)
	ind, err := st.CreateIndicator(ctx, &domain.Indicator{Name: "poverty rate"})
	require.NoError(t, err)
	poor, err := st.CreateRequiredData(ctx, &domain.RequiredData{Name: "poor"})
	require.NoError(t, err)
	total, err := st.CreateRequiredData(ctx, &domain.RequiredData{Name: "total"})
	require.NoError(t, err)

	gi, err := h.AddIndicator(ctx, domain.OwnerGoal, goal.ID, &domain.AddIndicatorRequest{IndicatorID: ind.ID})
	require.NoError(t, err)
	bindSlots(t, st, domain.Scope{Type: domain.ScopeGoalIndicator, ID: gi.ID}, poor, total)

	f := &fixture{
		store:   st,
		manager: NewManager(st, h),
		ctx:     auth.ContextWithSession(ctx, &domain.Session{UserID: 9, RoleID: domain.RoleFormulaEditor}),
		gi:      gi,
		poor:    poor,
		total:   total,
	}

	for _, name := range []string{"urban", "rural", "coastal"} {
		si, err := st.CreateSubIndicator(ctx, &domain.SubIndicator{IndicatorID: ind.ID, Name: name})
		require.NoError(t, err)
		sb, err := h.AddSubIndicator(ctx, domain.OwnerGoal, gi.ID, &domain.AddSubIndicatorRequest{SubIndicatorID: si.ID})
		require.NoError(t, err)
		bindSlots(t, st, domain.Scope{Type: domain.ScopeGoalSubIndicator, ID: sb.ID}, poor, total)
		f.subs = append(f.subs, sb)
	}

	return f
}

func bindSlots(t *testing.T, st *memstore.Store, scope domain.Scope, slots ...*domain.RequiredData) {
	t.Helper()
	for _, rd := range slots {
		_, err := st.BindRequiredData(context.Background(), scope, rd.ID)
		require.NoError(t, err)
	}
}

func (f *fixture) ruleOf(t *testing.T, scope domain.Scope) *domain.ComputationRule {
	t.Helper()
	rules, err := f.store.ListComputationRules(context.Background(), scope.Type, []int64{scope.ID})
	require.NoError(t, err)
	if len(rules) == 0 {
		return nil
	}
	return rules[0]
}

func TestCheckFormula(t *testing.T) {
	slots := []string{"poor", "total"}

	assert.NoError(t, CheckFormula("poor / total * 100", slots))
	assert.NoError(t, CheckFormula("(poor + 1.5) / total", slots))
	assert.ErrorIs(t, CheckFormula("  ", slots), ErrEmptyFormula)
	assert.Error(t, CheckFormula("poor / households", slots))
	assert.Error(t, CheckFormula("poor / (", slots))
	assert.Error(t, CheckFormula("poor", nil))
}

func TestCheckFormulaIgnoresTypeNamedSlots(t *testing.T) {
	for _, name := range []string{"type", "int", "double", "string", "map", "null_type"} {
		assert.NoError(t, CheckFormula("population * 2", []string{"population", name}), name)
	}
}

func TestIsSlotName(t *testing.T) {
	for name, want := range map[string]bool{
		"population":    true,
		"_count2":       true,
		"children_u5":   true,
		"2nd":           false,
		"poor-rate":     false,
		"":              false,
		"in":            false,
		"null":          false,
		"total persons": false,
		"int":           false,
		"uint":          false,
		"double":        false,
		"bool":          false,
		"string":        false,
		"bytes":         false,
		"list":          false,
		"map":           false,
		"type":          false,
		"null_type":     false,
	} {
		assert.Equal(t, want, IsSlotName(name), name)
	}
}

func TestCascadeSkipsExplicitOverrides(t *testing.T) {
	f := newFixture(t)

	override, err := f.manager.UpdateSubIndicatorComputationRule(f.ctx, domain.OwnerGoal, f.subs[1].ID, "poor")
	require.NoError(t, err)
	assert.False(t, override.Rule.Inherited)

	res, err := f.manager.UpdateIndicatorComputationRule(f.ctx, domain.OwnerGoal, f.gi.ID, "poor / total", true)
	require.NoError(t, err)
	assert.Equal(t, "poor / total", res.Rule.Formula)
	assert.Len(t, res.Cascaded, 2)

	for i, sb := range f.subs {
		rule := f.ruleOf(t, domain.Scope{Type: domain.ScopeGoalSubIndicator, ID: sb.ID})
		require.NotNil(t, rule)
		if i == 1 {
			assert.Equal(t, "poor", rule.Formula, "explicit override untouched")
			assert.False(t, rule.Inherited)
			continue
		}
		assert.Equal(t, "poor / total", rule.Formula)
		assert.True(t, rule.Inherited)
	}

	// A second cascade replaces inherited rules again and keeps one rule per scope.
	_, err = f.manager.UpdateIndicatorComputationRule(f.ctx, domain.OwnerGoal, f.gi.ID, "total - poor", true)
	require.NoError(t, err)

	rules, err := f.store.ListComputationRules(context.Background(), domain.ScopeGoalSubIndicator, nil)
	require.NoError(t, err)
	assert.Len(t, rules, 3)
	assert.Equal(t, "total - poor", f.ruleOf(t, domain.Scope{Type: domain.ScopeGoalSubIndicator, ID: f.subs[0].ID}).Formula)
}

func TestCascadeRejectsChildWithoutSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	extra, err := f.store.CreateRequiredData(ctx, &domain.RequiredData{Name: "households"})
	require.NoError(t, err)
	bindSlots(t, f.store, domain.Scope{Type: domain.ScopeGoalIndicator, ID: f.gi.ID}, extra)
	bindSlots(t, f.store, domain.Scope{Type: domain.ScopeGoalSubIndicator, ID: f.subs[0].ID}, extra)

	_, err = f.manager.UpdateIndicatorComputationRule(f.ctx, domain.OwnerGoal, f.gi.ID, "households / total", true)
	var ce *constants.CodedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 400, ce.Code())

	assert.Nil(t, f.ruleOf(t, domain.Scope{Type: domain.ScopeGoalIndicator, ID: f.gi.ID}))
	assert.Nil(t, f.ruleOf(t, domain.Scope{Type: domain.ScopeGoalSubIndicator, ID: f.subs[0].ID}))

	// Without cascade the same formula is fine for the indicator itself.
	_, err = f.manager.UpdateIndicatorComputationRule(f.ctx, domain.OwnerGoal, f.gi.ID, "households / total", false)
	require.NoError(t, err)
}

func TestUpdateRejectsUnboundSlot(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.UpdateIndicatorComputationRule(f.ctx, domain.OwnerGoal, f.gi.ID, "poor / population", false)
	var ce *constants.CodedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 400, ce.Code())
	assert.Nil(t, f.ruleOf(t, domain.Scope{Type: domain.ScopeGoalIndicator, ID: f.gi.ID}))
}

func TestUpdateReplacesSingleRule(t *testing.T) {
	f := newFixture(t)

	first, err := f.manager.UpdateIndicatorComputationRule(f.ctx, domain.OwnerGoal, f.gi.ID, "poor", false)
	require.NoError(t, err)
	second, err := f.manager.UpdateIndicatorComputationRule(f.ctx, domain.OwnerGoal, f.gi.ID, "total", false)
	require.NoError(t, err)

	assert.Equal(t, first.Rule.ID, second.Rule.ID)
	rules, err := f.store.ListComputationRules(context.Background(), domain.ScopeGoalIndicator, nil)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "total", rules[0].Formula)
}

func TestUpdateRequiresCapability(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.UpdateIndicatorComputationRule(context.Background(), domain.OwnerGoal, f.gi.ID, "poor", false)
	assert.ErrorIs(t, err, constants.ErrUnauthorized)

	officer := auth.ContextWithSession(context.Background(), &domain.Session{UserID: 3, RoleID: domain.RoleDataOfficer})
	_, err = f.manager.UpdateSubIndicatorComputationRule(officer, domain.OwnerGoal, f.subs[0].ID, "poor")
	assert.ErrorIs(t, err, constants.ErrForbidden)

	_, err = f.manager.UpdateIndicatorComputationRule(f.ctx, domain.OwnerProject, f.gi.ID, "poor", false)
	assert.ErrorIs(t, err, constants.ErrDBNotFound)
}
